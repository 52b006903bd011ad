package payrollcfg

import (
	"errors"
	"fmt"
	"strings"

	"peopleops/internal/domain/configentity"
)

var ErrValidation = errors.New("payroll config validation failed")

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// clamp keeps monetary and rate fields non-negative, mirroring the
// shape coercion clients perform before submitting.
func clamp(values ...*float64) {
	for _, v := range values {
		if *v < 0 {
			*v = 0
		}
	}
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	return nil
}

// AllowanceDef and the other defs below are the single shared table of
// per-entity policy: table mapping, search column, and whether the
// entity stays editable after approval.
var AllowanceDef = configentity.Def[Allowance]{
	Name:         "allowance",
	Table:        "allowances",
	Columns:      []string{"name", "amount"},
	SearchColumn: "name",
	Meta:         func(a *Allowance) *configentity.Meta { return &a.Meta },
	Fields:       func(a *Allowance) []any { return []any{&a.Name, &a.Amount} },
	Normalize:    func(a *Allowance) { clamp(&a.Amount) },
	Validate:     func(a *Allowance) error { return requireName(a.Name) },
}

var InsuranceBracketDef = configentity.Def[InsuranceBracket]{
	Name:                 "insurance_bracket",
	Table:                "insurance_brackets",
	Columns:              []string{"name", "min_salary", "max_salary", "employee_rate", "employer_rate"},
	SearchColumn:         "name",
	EditableWhenApproved: true,
	Meta:                 func(b *InsuranceBracket) *configentity.Meta { return &b.Meta },
	Fields: func(b *InsuranceBracket) []any {
		return []any{&b.Name, &b.MinSalary, &b.MaxSalary, &b.EmployeeRate, &b.EmployerRate}
	},
	Normalize: func(b *InsuranceBracket) {
		clamp(&b.MinSalary, &b.MaxSalary, &b.EmployeeRate, &b.EmployerRate)
	},
	Validate: func(b *InsuranceBracket) error {
		if err := requireName(b.Name); err != nil {
			return err
		}
		if b.MaxSalary > 0 && b.MaxSalary < b.MinSalary {
			return invalid("maxSalary", "must be greater than or equal to minSalary")
		}
		return nil
	},
}

var PayGradeDef = configentity.Def[PayGrade]{
	Name:                 "pay_grade",
	Table:                "pay_grades",
	Columns:              []string{"name", "min_salary", "max_salary", "currency"},
	SearchColumn:         "name",
	EditableWhenApproved: true,
	Meta:                 func(g *PayGrade) *configentity.Meta { return &g.Meta },
	Fields: func(g *PayGrade) []any {
		return []any{&g.Name, &g.MinSalary, &g.MaxSalary, &g.Currency}
	},
	Normalize: func(g *PayGrade) {
		clamp(&g.MinSalary, &g.MaxSalary)
		g.Currency = strings.ToUpper(strings.TrimSpace(g.Currency))
	},
	Validate: func(g *PayGrade) error {
		if err := requireName(g.Name); err != nil {
			return err
		}
		if g.MaxSalary > 0 && g.MaxSalary < g.MinSalary {
			return invalid("maxSalary", "must be greater than or equal to minSalary")
		}
		if g.Currency == "" {
			return invalid("currency", "is required")
		}
		return nil
	},
}

var PayTypeDef = configentity.Def[PayType]{
	Name:         "pay_type",
	Table:        "pay_types",
	Columns:      []string{"name", "code", "taxable"},
	SearchColumn: "name",
	Meta:         func(p *PayType) *configentity.Meta { return &p.Meta },
	Fields:       func(p *PayType) []any { return []any{&p.Name, &p.Code, &p.Taxable} },
	Normalize:    func(p *PayType) { p.Code = strings.ToLower(strings.TrimSpace(p.Code)) },
	Validate: func(p *PayType) error {
		if err := requireName(p.Name); err != nil {
			return err
		}
		if p.Code == "" {
			return invalid("code", "is required")
		}
		return nil
	},
}

var payrollFrequencies = map[string]bool{"weekly": true, "biweekly": true, "monthly": true}

var PayrollPolicyDef = configentity.Def[PayrollPolicy]{
	Name:                 "payroll_policy",
	Table:                "payroll_policies",
	Columns:              []string{"name", "frequency", "pay_day"},
	SearchColumn:         "name",
	EditableWhenApproved: true,
	Meta:                 func(p *PayrollPolicy) *configentity.Meta { return &p.Meta },
	Fields:               func(p *PayrollPolicy) []any { return []any{&p.Name, &p.Frequency, &p.PayDay} },
	Normalize: func(p *PayrollPolicy) {
		p.Frequency = strings.ToLower(strings.TrimSpace(p.Frequency))
		if p.PayDay < 1 {
			p.PayDay = 1
		}
		if p.PayDay > 31 {
			p.PayDay = 31
		}
	},
	Validate: func(p *PayrollPolicy) error {
		if err := requireName(p.Name); err != nil {
			return err
		}
		if !payrollFrequencies[p.Frequency] {
			return invalid("frequency", "must be weekly, biweekly or monthly")
		}
		return nil
	},
}

var SigningBonusDef = configentity.Def[SigningBonus]{
	Name:         "signing_bonus",
	Table:        "signing_bonuses",
	Columns:      []string{"name", "amount", "eligibility_months"},
	SearchColumn: "name",
	Meta:         func(b *SigningBonus) *configentity.Meta { return &b.Meta },
	Fields: func(b *SigningBonus) []any {
		return []any{&b.Name, &b.Amount, &b.EligibilityMonths}
	},
	Normalize: func(b *SigningBonus) {
		clamp(&b.Amount)
		if b.EligibilityMonths < 0 {
			b.EligibilityMonths = 0
		}
	},
	Validate: func(b *SigningBonus) error { return requireName(b.Name) },
}

var TaxRuleDef = configentity.Def[TaxRule]{
	Name:         "tax_rule",
	Table:        "tax_rules",
	Columns:      []string{"name", "lower_bound", "upper_bound", "rate"},
	SearchColumn: "name",
	Meta:         func(t *TaxRule) *configentity.Meta { return &t.Meta },
	Fields: func(t *TaxRule) []any {
		return []any{&t.Name, &t.LowerBound, &t.UpperBound, &t.Rate}
	},
	Normalize: func(t *TaxRule) { clamp(&t.LowerBound, &t.UpperBound, &t.Rate) },
	Validate: func(t *TaxRule) error {
		if err := requireName(t.Name); err != nil {
			return err
		}
		if t.UpperBound > 0 && t.UpperBound < t.LowerBound {
			return invalid("upperBound", "must be greater than or equal to lowerBound")
		}
		return nil
	},
}

var TerminationBenefitDef = configentity.Def[TerminationBenefit]{
	Name:         "termination_benefit",
	Table:        "termination_benefits",
	Columns:      []string{"name", "amount", "min_service_years"},
	SearchColumn: "name",
	Meta:         func(b *TerminationBenefit) *configentity.Meta { return &b.Meta },
	Fields: func(b *TerminationBenefit) []any {
		return []any{&b.Name, &b.Amount, &b.MinServiceYears}
	},
	Normalize: func(b *TerminationBenefit) {
		clamp(&b.Amount)
		if b.MinServiceYears < 0 {
			b.MinServiceYears = 0
		}
	},
	Validate: func(b *TerminationBenefit) error { return requireName(b.Name) },
}
