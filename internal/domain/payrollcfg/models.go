package payrollcfg

import "peopleops/internal/domain/configentity"

type Allowance struct {
	configentity.Meta
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type InsuranceBracket struct {
	configentity.Meta
	Name         string  `json:"name"`
	MinSalary    float64 `json:"minSalary"`
	MaxSalary    float64 `json:"maxSalary"`
	EmployeeRate float64 `json:"employeeRate"`
	EmployerRate float64 `json:"employerRate"`
}

type PayGrade struct {
	configentity.Meta
	Name      string  `json:"name"`
	MinSalary float64 `json:"minSalary"`
	MaxSalary float64 `json:"maxSalary"`
	Currency  string  `json:"currency"`
}

type PayType struct {
	configentity.Meta
	Name    string `json:"name"`
	Code    string `json:"code"`
	Taxable bool   `json:"taxable"`
}

type PayrollPolicy struct {
	configentity.Meta
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	PayDay    int    `json:"payDay"`
}

type SigningBonus struct {
	configentity.Meta
	Name              string  `json:"name"`
	Amount            float64 `json:"amount"`
	EligibilityMonths int     `json:"eligibilityMonths"`
}

type TaxRule struct {
	configentity.Meta
	Name       string  `json:"name"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
	Rate       float64 `json:"rate"`
}

type TerminationBenefit struct {
	configentity.Meta
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	MinServiceYears int     `json:"minServiceYears"`
}
