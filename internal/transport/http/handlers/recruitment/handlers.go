package recruitmenthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/domain/recruitment"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service *recruitment.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *notifications.Service
}

func NewHandler(service *recruitment.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recruitment", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRecruitmentRead, h.Perms)).Get("/templates", h.handleListTemplates)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Post("/templates", h.handleCreateTemplate)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Put("/templates/{templateID}", h.handleUpdateTemplate)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Delete("/templates/{templateID}", h.handleDeleteTemplate)
		r.With(middleware.RequirePermission(auth.PermRecruitmentRead, h.Perms)).Get("/requisitions", h.handleListRequisitions)
		r.With(middleware.RequirePermission(auth.PermRecruitmentRead, h.Perms)).Get("/requisitions/{requisitionID}", h.handleGetRequisition)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Post("/requisitions", h.handleCreateRequisition)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Post("/requisitions/{requisitionID}/publish", h.handlePublish)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Post("/requisitions/{requisitionID}/close", h.handleClose)
		r.With(middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)).Post("/requisitions/{requisitionID}/hires", h.handleRecordHire)
	})
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	items, total, err := h.Service.ListTemplates(r.Context(), search, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_list_failed", "failed to list job templates", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []recruitment.JobTemplate{}
	}
	api.SuccessList(w, items, total, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload recruitment.JobTemplate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	tpl, err := h.Service.CreateTemplate(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, user.UserID, "recruitment.template.create", tpl.ID, nil, tpl)
	api.Created(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload recruitment.JobTemplate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	tpl, err := h.Service.UpdateTemplate(r.Context(), chi.URLParam(r, "templateID"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, user.UserID, "recruitment.template.update", tpl.ID, nil, tpl)
	api.Success(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	templateID := chi.URLParam(r, "templateID")
	if err := h.Service.DeleteTemplate(r.Context(), templateID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, user.UserID, "recruitment.template.delete", templateID, nil, nil)
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequisitions(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	items, total, err := h.Service.ListRequisitions(r.Context(), status, search, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "requisition_list_failed", "failed to list requisitions", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []recruitment.Requisition{}
	}
	api.SuccessList(w, items, total, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequisition(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.GetRequisition(r.Context(), chi.URLParam(r, "requisitionID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type requisitionRequest struct {
	TemplateID string `json:"templateId"`
	Title      string `json:"title"`
	Headcount  int    `json:"headcount"`
}

func (h *Handler) handleCreateRequisition(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload requisitionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.CreateRequisition(r.Context(), payload.TemplateID, payload.Title, payload.Headcount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, user.UserID, "recruitment.requisition.create", req.ID, nil, req)
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, recruitment.RequisitionPublished)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, recruitment.RequisitionClosed)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, target string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requisitionID := chi.URLParam(r, "requisitionID")
	req, err := h.Service.Transition(r.Context(), requisitionID, target)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.record(r, user.UserID, "recruitment.requisition."+target, req.ID, nil, req)
	if target == recruitment.RequisitionPublished {
		h.Notify.NotifyRole(r.Context(), auth.RoleHR, notifications.TypeRequisitionPublished,
			"Requisition published",
			"Requisition "+req.Title+" is now open for "+strconv.Itoa(req.Headcount)+" hires.")
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordHire(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.RecordHire(r.Context(), chi.URLParam(r, "requisitionID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, user.UserID, "recruitment.requisition.hire", req.ID, nil, req)
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actorID, action, entityID string, before, after any) {
	if err := h.Audit.Record(r.Context(), actorID, action, "recruitment", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, recruitment.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "recruitment resource not found", requestID)
	case errors.Is(err, recruitment.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "requisition transition not allowed", requestID)
	case errors.Is(err, recruitment.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "recruitment_failed", "recruitment operation failed", requestID)
	}
}
