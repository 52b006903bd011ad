package offboardinghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/domain/offboarding"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service        *offboarding.Service
	Perms          middleware.PermissionStore
	Audit          *audit.Service
	Notify         *notifications.Service
	CertificateDir string
}

func NewHandler(service *offboarding.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service, certificateDir string) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify, CertificateDir: certificateDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/offboarding", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOffboardingRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermOffboardingRead, h.Perms)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite, h.Perms)).Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequirePermission(auth.PermOffboardingApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermOffboardingApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite, h.Perms)).Post("/requests/{requestID}/checklist", h.handleInitiateChecklist)
		r.With(middleware.RequirePermission(auth.PermOffboardingRead, h.Perms)).Get("/requests/{requestID}/checklist", h.handleChecklistForRequest)
		r.With(middleware.RequirePermission(auth.PermOffboardingRead, h.Perms)).Get("/checklists/{checklistID}", h.handleGetChecklist)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite, h.Perms)).Patch("/checklists/{checklistID}/clearances/{department}", h.handleUpdateClearance)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite, h.Perms)).Patch("/checklists/{checklistID}/equipment", h.handleUpdateEquipment)
		r.With(middleware.RequirePermission(auth.PermOffboardingWrite, h.Perms)).Patch("/checklists/{checklistID}/card", h.handleSetCard)
		r.With(middleware.RequirePermission(auth.PermOffboardingRead, h.Perms)).Get("/checklists/{checklistID}/certificate", h.handleCertificate)
	})
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	status := r.URL.Query().Get("status")
	employeeID := r.URL.Query().Get("employeeId")
	if user.RoleName == auth.RoleEmployee {
		employeeID = user.UserID
	}

	page := shared.ParsePagination(r, 20, 100)
	items, total, err := h.Service.ListRequests(r.Context(), status, employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list termination requests", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []offboarding.TerminationRequest{}
	}
	api.SuccessList(w, items, total, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, request, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var input offboarding.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if user.RoleName == auth.RoleEmployee {
		input.EmployeeID = user.UserID
		input.Initiator = offboarding.InitiatorEmployee
	}

	v := shared.NewValidator()
	v.Required("employeeId", input.EmployeeID, "is required")
	v.Required("reason", input.Reason, "is required")
	v.Required("initiator", input.Initiator, "is required")
	v.Enum("initiator", input.Initiator, []string{offboarding.InitiatorEmployee, offboarding.InitiatorHR}, "must be employee or hr")
	v.Date("terminationDate", input.TerminationDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	request, err := h.Service.CreateRequest(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.request.create", request.ID, nil, request)
	h.Notify.NotifyRole(r.Context(), auth.RoleHR, notifications.TypeTerminationSubmitted,
		"Termination request submitted",
		"A termination request for employee "+request.EmployeeID+" is awaiting review.")
	api.Created(w, request, middleware.GetRequestID(r.Context()))
}

type decisionRequest struct {
	HRComments string `json:"hrComments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload decisionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	requestID := chi.URLParam(r, "requestID")
	checklist, err := h.Service.Approve(r.Context(), requestID, payload.HRComments)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.request.approve", requestID, nil, checklist)
	h.notifyRequest(r, requestID, notifications.TypeTerminationApproved,
		"Termination request approved",
		"Your termination request was approved and offboarding has started.")
	api.Success(w, checklist, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	if err := h.Service.Reject(r.Context(), requestID, payload.HRComments); err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.request.reject", requestID, nil, payload)
	h.notifyRequest(r, requestID, notifications.TypeTerminationRejected,
		"Termination request rejected",
		"Your termination request was rejected: "+payload.HRComments)
	api.Success(w, map[string]string{"status": offboarding.RequestStatusRejected}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleInitiateChecklist(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	checklist, err := h.Service.InitiateChecklist(r.Context(), requestID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.checklist.create", checklist.ID, nil, checklist)
	api.Created(w, checklist, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChecklistForRequest(w http.ResponseWriter, r *http.Request) {
	checklist, err := h.Service.ChecklistForRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, checklist, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := h.Service.Checklist(r.Context(), chi.URLParam(r, "checklistID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, checklist, middleware.GetRequestID(r.Context()))
}

type clearanceRequest struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

func (h *Handler) handleUpdateClearance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload clearanceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	checklistID := chi.URLParam(r, "checklistID")
	department := chi.URLParam(r, "department")
	result, err := h.Service.UpdateClearance(r.Context(), checklistID, department, payload.Status, payload.Comments, user.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.clearance.update", checklistID, nil, payload)
	h.afterChecklistChange(r, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEquipment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var item offboarding.EquipmentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	checklistID := chi.URLParam(r, "checklistID")
	result, err := h.Service.UpdateEquipment(r.Context(), checklistID, item)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.equipment.update", checklistID, nil, item)
	h.afterChecklistChange(r, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type cardRequest struct {
	Returned bool `json:"returned"`
}

func (h *Handler) handleSetCard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload cardRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	checklistID := chi.URLParam(r, "checklistID")
	result, err := h.Service.SetCardReturned(r.Context(), checklistID, payload.Returned)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "offboarding.card.update", checklistID, nil, payload)
	h.afterChecklistChange(r, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCertificate(w http.ResponseWriter, r *http.Request) {
	checklistID := chi.URLParam(r, "checklistID")
	path, err := h.Service.GenerateClearanceCertificate(r.Context(), checklistID, h.CertificateDir)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			slog.Warn("certificate cleanup failed", "path", path, "err", err)
		}
	}()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="clearance-certificate.pdf"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) afterChecklistChange(r *http.Request, result offboarding.ClearanceResult) {
	if result.Checklist.OverallStatus != offboarding.OverallFullyCleared {
		return
	}
	if result.AutoApproved {
		h.record(r, "system", "offboarding.request.auto_approve", result.Checklist.TerminationRequestID, nil, result.Checklist)
	}
	h.Notify.NotifyRole(r.Context(), auth.RoleHR, notifications.TypeClearanceCleared,
		"Offboarding fully cleared",
		"Checklist "+result.Checklist.ID+" is fully cleared.")
}

func (h *Handler) notifyRequest(r *http.Request, requestID, ntype, title, body string) {
	request, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		slog.Warn("notify request lookup failed", "requestId", requestID, "err", err)
		return
	}
	if err := h.Notify.Notify(r.Context(), request.EmployeeID, ntype, title, body); err != nil {
		slog.Warn("termination notification failed", "err", err)
	}
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string, before, after any) {
	if err := h.Audit.Record(r.Context(), actorID, action, "offboarding", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, offboarding.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "termination request not found", requestID)
	case errors.Is(err, offboarding.ErrChecklistNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "offboarding checklist not found", requestID)
	case errors.Is(err, offboarding.ErrChecklistExists):
		api.Fail(w, http.StatusConflict, "checklist_exists", "a checklist already exists for this request", requestID)
	case errors.Is(err, offboarding.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "request state does not permit this action", requestID)
	case errors.Is(err, offboarding.ErrCommentsRequired):
		api.Fail(w, http.StatusBadRequest, "comments_required", "hr comments are required when rejecting", requestID)
	case errors.Is(err, offboarding.ErrInvalidClearance):
		api.Fail(w, http.StatusConflict, "invalid_clearance", "clearance transition not allowed", requestID)
	case errors.Is(err, offboarding.ErrUnknownDepartment):
		api.Fail(w, http.StatusNotFound, "not_found", "unknown clearance department", requestID)
	case errors.Is(err, offboarding.ErrNotFullyCleared):
		api.Fail(w, http.StatusConflict, "not_fully_cleared", "checklist is not fully cleared", requestID)
	case errors.Is(err, offboarding.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "offboarding_failed", "offboarding operation failed", requestID)
	}
}
