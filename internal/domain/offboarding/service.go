package offboarding

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrRequestNotFound   = errors.New("termination request not found")
	ErrChecklistNotFound = errors.New("offboarding checklist not found")
	ErrChecklistExists   = errors.New("offboarding checklist already exists")
	ErrInvalidState      = errors.New("termination request is not in a state that permits this action")
	ErrCommentsRequired  = errors.New("hr comments are required when rejecting")
	ErrInvalidClearance  = errors.New("invalid clearance transition")
	ErrUnknownDepartment = errors.New("unknown clearance department")
	ErrNotFullyCleared   = errors.New("checklist is not fully cleared")
	ErrValidation        = errors.New("invalid termination request")
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

type RequestInput struct {
	EmployeeID       string `json:"employeeId"`
	ContractID       string `json:"contractId"`
	Reason           string `json:"reason"`
	Initiator        string `json:"initiator"`
	TerminationDate  string `json:"terminationDate"`
	EmployeeComments string `json:"employeeComments"`
}

func (s *Service) CreateRequest(ctx context.Context, input RequestInput) (TerminationRequest, error) {
	if strings.TrimSpace(input.EmployeeID) == "" || strings.TrimSpace(input.Reason) == "" {
		return TerminationRequest{}, ErrValidation
	}
	if input.Initiator != InitiatorEmployee && input.Initiator != InitiatorHR {
		return TerminationRequest{}, ErrValidation
	}
	terminationDate, err := time.Parse("2006-01-02", input.TerminationDate)
	if err != nil {
		return TerminationRequest{}, ErrValidation
	}

	return s.Store.CreateRequest(ctx, TerminationRequest{
		EmployeeID:       input.EmployeeID,
		ContractID:       input.ContractID,
		Reason:           strings.TrimSpace(input.Reason),
		Initiator:        input.Initiator,
		Status:           RequestStatusPending,
		TerminationDate:  terminationDate,
		EmployeeComments: strings.TrimSpace(input.EmployeeComments),
	})
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (TerminationRequest, error) {
	return s.Store.RequestByID(ctx, requestID)
}

func (s *Service) ListRequests(ctx context.Context, status, employeeID string, limit, offset int) ([]TerminationRequest, int, error) {
	return s.Store.ListRequests(ctx, status, employeeID, limit, offset)
}

// Approve moves a pending request to approved and seeds its clearance
// checklist when one does not exist yet.
func (s *Service) Approve(ctx context.Context, requestID, hrComments string) (Checklist, error) {
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return Checklist{}, err
	}
	if req.Status != RequestStatusPending {
		return Checklist{}, ErrInvalidState
	}
	if err := s.Store.UpdateRequestStatus(ctx, requestID, RequestStatusApproved, strings.TrimSpace(hrComments)); err != nil {
		return Checklist{}, err
	}

	checklist, err := s.Store.ChecklistByRequest(ctx, requestID)
	if errors.Is(err, ErrChecklistNotFound) {
		return s.Store.CreateChecklist(ctx, requestID, DefaultClearanceDepartments)
	}
	return checklist, err
}

func (s *Service) Reject(ctx context.Context, requestID, hrComments string) error {
	if strings.TrimSpace(hrComments) == "" {
		return ErrCommentsRequired
	}
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != RequestStatusPending {
		return ErrInvalidState
	}
	return s.Store.UpdateRequestStatus(ctx, requestID, RequestStatusRejected, strings.TrimSpace(hrComments))
}

// InitiateChecklist creates a checklist ahead of approval, used when HR
// starts clearance collection while the request is still pending.
func (s *Service) InitiateChecklist(ctx context.Context, requestID string) (Checklist, error) {
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return Checklist{}, err
	}
	if req.Status == RequestStatusRejected {
		return Checklist{}, ErrInvalidState
	}
	if _, err := s.Store.ChecklistByRequest(ctx, requestID); err == nil {
		return Checklist{}, ErrChecklistExists
	} else if !errors.Is(err, ErrChecklistNotFound) {
		return Checklist{}, err
	}
	return s.Store.CreateChecklist(ctx, requestID, DefaultClearanceDepartments)
}

func (s *Service) Checklist(ctx context.Context, checklistID string) (Checklist, error) {
	checklist, err := s.Store.ChecklistByID(ctx, checklistID)
	if err != nil {
		return Checklist{}, err
	}
	checklist.Progress = ComputeProgress(checklist)
	return checklist, nil
}

func (s *Service) ChecklistForRequest(ctx context.Context, requestID string) (Checklist, error) {
	checklist, err := s.Store.ChecklistByRequest(ctx, requestID)
	if err != nil {
		return Checklist{}, err
	}
	checklist.Progress = ComputeProgress(checklist)
	return checklist, nil
}

// ClearanceResult reports the checklist after an item update, plus
// whether this update auto-approved the parent termination request.
type ClearanceResult struct {
	Checklist    Checklist `json:"checklist"`
	AutoApproved bool      `json:"autoApproved"`
}

func (s *Service) UpdateClearance(ctx context.Context, checklistID, department, status, comments, updatedBy string) (ClearanceResult, error) {
	checklist, err := s.Store.ChecklistByID(ctx, checklistID)
	if err != nil {
		return ClearanceResult{}, err
	}

	var current *Clearance
	for i := range checklist.Clearances {
		if checklist.Clearances[i].Department == department {
			current = &checklist.Clearances[i]
			break
		}
	}
	if current == nil {
		return ClearanceResult{}, ErrUnknownDepartment
	}
	if !ClearanceTransitionAllowed(current.Status, status) {
		return ClearanceResult{}, ErrInvalidClearance
	}

	if err := s.Store.UpdateClearance(ctx, checklistID, Clearance{
		Department: department,
		Status:     status,
		Comments:   strings.TrimSpace(comments),
		UpdatedBy:  updatedBy,
	}); err != nil {
		return ClearanceResult{}, err
	}
	return s.refresh(ctx, checklistID)
}

func (s *Service) UpdateEquipment(ctx context.Context, checklistID string, item EquipmentItem) (ClearanceResult, error) {
	if strings.TrimSpace(item.Name) == "" {
		return ClearanceResult{}, ErrValidation
	}
	if _, err := s.Store.ChecklistByID(ctx, checklistID); err != nil {
		return ClearanceResult{}, err
	}
	if err := s.Store.UpsertEquipment(ctx, checklistID, item); err != nil {
		return ClearanceResult{}, err
	}
	return s.refresh(ctx, checklistID)
}

func (s *Service) SetCardReturned(ctx context.Context, checklistID string, returned bool) (ClearanceResult, error) {
	if _, err := s.Store.ChecklistByID(ctx, checklistID); err != nil {
		return ClearanceResult{}, err
	}
	if err := s.Store.SetCardReturned(ctx, checklistID, returned); err != nil {
		return ClearanceResult{}, err
	}
	return s.refresh(ctx, checklistID)
}

// refresh re-derives the overall status after an item update and
// auto-approves the parent request once everything is cleared. The
// decision lives here; clients only get told about it.
func (s *Service) refresh(ctx context.Context, checklistID string) (ClearanceResult, error) {
	checklist, err := s.Store.ChecklistByID(ctx, checklistID)
	if err != nil {
		return ClearanceResult{}, err
	}

	overall := DeriveOverallStatus(checklist)
	if overall != checklist.OverallStatus {
		if err := s.Store.SetOverallStatus(ctx, checklistID, overall); err != nil {
			return ClearanceResult{}, err
		}
		checklist.OverallStatus = overall
	}
	checklist.Progress = ComputeProgress(checklist)

	result := ClearanceResult{Checklist: checklist}
	if overall == OverallFullyCleared {
		req, err := s.Store.RequestByID(ctx, checklist.TerminationRequestID)
		if err != nil {
			return result, err
		}
		if req.Status == RequestStatusPending {
			if err := s.Store.UpdateRequestStatus(ctx, req.ID, RequestStatusApproved, req.HRComments); err != nil {
				return result, err
			}
			result.AutoApproved = true
		}
	}
	return result, nil
}
