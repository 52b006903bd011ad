package payrollcfg

import (
	"errors"
	"testing"
)

func TestAllowanceNormalizeAndValidate(t *testing.T) {
	a := Allowance{Name: "Housing", Amount: -50}
	AllowanceDef.Normalize(&a)
	if a.Amount != 0 {
		t.Fatalf("Amount = %v, want clamp to 0", a.Amount)
	}
	if err := AllowanceDef.Validate(&a); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	a.Name = "   "
	if err := AllowanceDef.Validate(&a); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: got %v, want ErrValidation", err)
	}
}

func TestInsuranceBracketValidate(t *testing.T) {
	b := InsuranceBracket{Name: "Tier 1", MinSalary: 1000, MaxSalary: 500}
	if err := InsuranceBracketDef.Validate(&b); !errors.Is(err, ErrValidation) {
		t.Fatalf("inverted bounds: got %v, want ErrValidation", err)
	}

	// zero max means unbounded
	b.MaxSalary = 0
	if err := InsuranceBracketDef.Validate(&b); err != nil {
		t.Fatalf("unbounded max: %v", err)
	}

	b.MaxSalary = 2000
	if err := InsuranceBracketDef.Validate(&b); err != nil {
		t.Fatalf("valid bracket: %v", err)
	}
	if !InsuranceBracketDef.EditableWhenApproved {
		t.Fatal("insurance brackets should stay editable after approval")
	}
}

func TestPayGradeNormalizeAndValidate(t *testing.T) {
	g := PayGrade{Name: "G1", MinSalary: 100, MaxSalary: 200, Currency: " usd "}
	PayGradeDef.Normalize(&g)
	if g.Currency != "USD" {
		t.Fatalf("Currency = %q, want USD", g.Currency)
	}
	if err := PayGradeDef.Validate(&g); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	g.Currency = ""
	if err := PayGradeDef.Validate(&g); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing currency: got %v, want ErrValidation", err)
	}

	g.Currency = "USD"
	g.MaxSalary = 50
	if err := PayGradeDef.Validate(&g); !errors.Is(err, ErrValidation) {
		t.Fatalf("inverted salary range: got %v, want ErrValidation", err)
	}
}

func TestPayTypeNormalizeAndValidate(t *testing.T) {
	p := PayType{Name: "Base", Code: " SALARY "}
	PayTypeDef.Normalize(&p)
	if p.Code != "salary" {
		t.Fatalf("Code = %q, want salary", p.Code)
	}
	if err := PayTypeDef.Validate(&p); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	p.Code = ""
	if err := PayTypeDef.Validate(&p); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing code: got %v, want ErrValidation", err)
	}
}

func TestPayrollPolicyValidate(t *testing.T) {
	p := PayrollPolicy{Name: "Default", Frequency: " Monthly ", PayDay: 45}
	PayrollPolicyDef.Normalize(&p)
	if p.Frequency != "monthly" {
		t.Fatalf("Frequency = %q, want monthly", p.Frequency)
	}
	if p.PayDay != 31 {
		t.Fatalf("PayDay = %d, want clamp to 31", p.PayDay)
	}
	if err := PayrollPolicyDef.Validate(&p); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	p.PayDay = 0
	PayrollPolicyDef.Normalize(&p)
	if p.PayDay != 1 {
		t.Fatalf("PayDay = %d, want clamp to 1", p.PayDay)
	}

	p.Frequency = "quarterly"
	if err := PayrollPolicyDef.Validate(&p); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad frequency: got %v, want ErrValidation", err)
	}
}

func TestTaxRuleValidate(t *testing.T) {
	r := TaxRule{Name: "Band A", LowerBound: 5000, UpperBound: 1000}
	if err := TaxRuleDef.Validate(&r); !errors.Is(err, ErrValidation) {
		t.Fatalf("inverted band: got %v, want ErrValidation", err)
	}

	r.UpperBound = 0
	if err := TaxRuleDef.Validate(&r); err != nil {
		t.Fatalf("open-ended band: %v", err)
	}
}

func TestSigningBonusNormalize(t *testing.T) {
	b := SigningBonus{Name: "Relocation", Amount: -100, EligibilityMonths: -3}
	SigningBonusDef.Normalize(&b)
	if b.Amount != 0 || b.EligibilityMonths != 0 {
		t.Fatalf("negative fields not clamped: %+v", b)
	}
}

func TestTerminationBenefitNormalize(t *testing.T) {
	b := TerminationBenefit{Name: "Severance", Amount: -1, MinServiceYears: -2}
	TerminationBenefitDef.Normalize(&b)
	if b.Amount != 0 || b.MinServiceYears != 0 {
		t.Fatalf("negative fields not clamped: %+v", b)
	}
}
