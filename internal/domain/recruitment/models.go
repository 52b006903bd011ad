package recruitment

import "time"

const (
	RequisitionDraft     = "draft"
	RequisitionPublished = "published"
	RequisitionClosed    = "closed"
)

type JobTemplate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Requisition is a job opening derived from a template. FillRate is
// derived server-side and included in list responses.
type Requisition struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	Title      string    `json:"title"`
	Headcount  int       `json:"headcount"`
	Filled     int       `json:"filled"`
	Status     string    `json:"status"`
	FillRate   float64   `json:"fillRate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
