package offboarding

import "context"

type StoreAPI interface {
	CreateRequest(ctx context.Context, req TerminationRequest) (TerminationRequest, error)
	RequestByID(ctx context.Context, requestID string) (TerminationRequest, error)
	ListRequests(ctx context.Context, status, employeeID string, limit, offset int) ([]TerminationRequest, int, error)
	UpdateRequestStatus(ctx context.Context, requestID, status, hrComments string) error

	CreateChecklist(ctx context.Context, requestID string, departments []string) (Checklist, error)
	ChecklistByID(ctx context.Context, checklistID string) (Checklist, error)
	ChecklistByRequest(ctx context.Context, requestID string) (Checklist, error)
	UpdateClearance(ctx context.Context, checklistID string, item Clearance) error
	UpsertEquipment(ctx context.Context, checklistID string, item EquipmentItem) error
	SetCardReturned(ctx context.Context, checklistID string, returned bool) error
	SetOverallStatus(ctx context.Context, checklistID, overall string) error

	EmployeeName(ctx context.Context, employeeID string) (string, error)
}
