package offboarding

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"

	InitiatorEmployee = "employee"
	InitiatorHR       = "hr"
)

const (
	ClearancePending     = "pending"
	ClearanceUnderReview = "under_review"
	ClearanceApproved    = "approved"
	ClearanceRejected    = "rejected"
)

const (
	OverallInProgress      = "in_progress"
	OverallFullyCleared    = "fully_cleared"
	OverallClearanceIssues = "clearance_issues"
)

// DefaultClearanceDepartments seeds a new checklist. Every department
// starts pending.
var DefaultClearanceDepartments = []string{"it", "finance", "hr", "facilities"}

type TerminationRequest struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	ContractID       string    `json:"contractId"`
	Reason           string    `json:"reason"`
	Initiator        string    `json:"initiator"`
	Status           string    `json:"status"`
	TerminationDate  time.Time `json:"terminationDate"`
	EmployeeComments string    `json:"employeeComments,omitempty"`
	HRComments       string    `json:"hrComments,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Clearance struct {
	Department string    `json:"department"`
	Status     string    `json:"status"`
	Comments   string    `json:"comments,omitempty"`
	UpdatedBy  string    `json:"updatedBy,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type EquipmentItem struct {
	Name      string `json:"name"`
	Returned  bool   `json:"returned"`
	Condition string `json:"condition,omitempty"`
}

// Progress is derived server-side; clients read allCleared from here
// instead of recomputing it.
type Progress struct {
	Cleared    int     `json:"cleared"`
	Total      int     `json:"total"`
	Percent    float64 `json:"percent"`
	AllCleared bool    `json:"allCleared"`
}

type Checklist struct {
	ID                   string          `json:"id"`
	TerminationRequestID string          `json:"terminationRequestId"`
	Clearances           []Clearance     `json:"clearances"`
	Equipment            []EquipmentItem `json:"equipment"`
	CardReturned         bool            `json:"cardReturned"`
	OverallStatus        string          `json:"overallStatus"`
	Progress             Progress        `json:"progress"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}
