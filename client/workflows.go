package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Wire types for the workflow endpoints. Kept separate from the server
// internals so the client module stays dependency-light.

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
}

type Clearance struct {
	Department string `json:"department"`
	Status     string `json:"status"`
	Comments   string `json:"comments,omitempty"`
}

type EquipmentItem struct {
	Name      string `json:"name"`
	Returned  bool   `json:"returned"`
	Condition string `json:"condition,omitempty"`
}

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
}

type ClearanceResult struct {
	Checklist    Checklist `json:"checklist"`
	AutoApproved bool      `json:"autoApproved"`
}

type Entitlement struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employeeId"`
	LeaveTypeID       string  `json:"leaveTypeId"`
	YearlyEntitlement float64 `json:"yearlyEntitlement"`
	AccruedRounded    float64 `json:"accruedRounded"`
	CarryForward      float64 `json:"carryForward"`
	Taken             float64 `json:"taken"`
	Pending           float64 `json:"pending"`
	Remaining         float64 `json:"remaining"`
}

type OffboardingClient struct {
	c *Client
}

func (c *Client) Offboarding() *OffboardingClient {
	return &OffboardingClient{c: c}
}

func (o *OffboardingClient) CreateRequest(ctx context.Context, req TerminationRequest) (TerminationRequest, error) {
	var out TerminationRequest
	err := o.c.do(ctx, http.MethodPost, "/offboarding/requests", nil, req, &out)
	return out, err
}

func (o *OffboardingClient) ListRequests(ctx context.Context, status string, limit, offset int) (ListResult[TerminationRequest], error) {
	values := url.Values{}
	if status != "" {
		values.Set("status", status)
	}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	var out ListResult[TerminationRequest]
	err := o.c.do(ctx, http.MethodGet, "/offboarding/requests", values, nil, &out)
	return out, err
}

func (o *OffboardingClient) Approve(ctx context.Context, requestID, hrComments string) (Checklist, error) {
	var out Checklist
	err := o.c.do(ctx, http.MethodPost, "/offboarding/requests/"+requestID+"/approve", nil, map[string]string{"hrComments": hrComments}, &out)
	return out, err
}

func (o *OffboardingClient) Reject(ctx context.Context, requestID, hrComments string) error {
	return o.c.do(ctx, http.MethodPost, "/offboarding/requests/"+requestID+"/reject", nil, map[string]string{"hrComments": hrComments}, nil)
}

func (o *OffboardingClient) Checklist(ctx context.Context, checklistID string) (Checklist, error) {
	var out Checklist
	err := o.c.do(ctx, http.MethodGet, "/offboarding/checklists/"+checklistID, nil, nil, &out)
	return out, err
}

func (o *OffboardingClient) UpdateClearance(ctx context.Context, checklistID, department, status, comments string) (ClearanceResult, error) {
	var out ClearanceResult
	err := o.c.do(ctx, http.MethodPatch, "/offboarding/checklists/"+checklistID+"/clearances/"+department, nil,
		map[string]string{"status": status, "comments": comments}, &out)
	return out, err
}

type LeaveClient struct {
	c *Client
}

func (c *Client) Leave() *LeaveClient {
	return &LeaveClient{c: c}
}

func (l *LeaveClient) Entitlement(ctx context.Context, employeeID, leaveTypeID string) (Entitlement, error) {
	var out Entitlement
	err := l.c.do(ctx, http.MethodGet, "/leave/entitlements/"+employeeID+"/"+leaveTypeID, nil, nil, &out)
	return out, err
}

func (l *LeaveClient) Recalculate(ctx context.Context, employeeID, leaveTypeID string) (Entitlement, error) {
	var out Entitlement
	err := l.c.do(ctx, http.MethodPost, "/leave/entitlements/"+employeeID+"/"+leaveTypeID+"/recalculate", nil, nil, &out)
	return out, err
}

func (l *LeaveClient) Adjust(ctx context.Context, employeeID, leaveTypeID, adjustmentType string, amount float64, reason string) (Entitlement, error) {
	var out Entitlement
	err := l.c.do(ctx, http.MethodPost, "/leave/entitlements/adjust", nil, map[string]any{
		"employeeId":     employeeID,
		"leaveTypeId":    leaveTypeID,
		"adjustmentType": adjustmentType,
		"amount":         amount,
		"reason":         reason,
	}, &out)
	return out, err
}
