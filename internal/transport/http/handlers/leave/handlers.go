package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/domain/configentity"
	"peopleops/internal/domain/entitlement"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/platform/jobs"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/handlers/configresource"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *entitlement.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Notify  *notifications.Service
	Jobs    *jobs.Service
}

func NewHandler(db *pgxpool.Pool, service *entitlement.Service, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{DB: db, Service: service, Perms: perms, Audit: auditSvc, Notify: notify, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		configresource.Register(r, "types", configentity.NewResource(h.DB, entitlement.LeaveTypeDef), configresource.Deps{
			Perms:       h.Perms,
			Audit:       h.Audit,
			Notify:      h.Notify,
			ReadPerm:    auth.PermLeaveRead,
			WritePerm:   auth.PermLeaveWrite,
			ApprovePerm: auth.PermLeaveAdjust,
			AuditPrefix: "leave",
		})

		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/entitlements", h.handleListEntitlements)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/entitlements/{employeeID}/{leaveTypeID}", h.handleGetEntitlement)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/entitlements/{employeeID}/{leaveTypeID}/recalculate", h.handleRecalculate)
		r.With(middleware.RequirePermission(auth.PermLeaveAdjust, h.Perms)).Post("/entitlements/adjust", h.handleAdjust)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/entitlements/{employeeID}/{leaveTypeID}/adjustments", h.handleListAdjustments)
		r.With(middleware.RequirePermission(auth.PermLeaveAdjust, h.Perms)).Post("/entitlements/reset", h.handleAnnualReset)
	})
}

func (h *Handler) handleListEntitlements(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if user.RoleName == auth.RoleEmployee {
		// employees only see their own balances
		employeeID = user.UserID
	}

	page := shared.ParsePagination(r, 20, 100)
	items, total, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "entitlement_list_failed", "failed to list entitlements", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []entitlement.Entitlement{}
	}
	api.SuccessList(w, items, total, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEntitlement(w http.ResponseWriter, r *http.Request) {
	ent, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "leaveTypeID"))
	if err != nil {
		h.failEntitlement(w, r, err)
		return
	}
	api.Success(w, ent, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	leaveTypeID := chi.URLParam(r, "leaveTypeID")
	ent, err := h.Service.Recalculate(r.Context(), employeeID, leaveTypeID, time.Now())
	if err != nil {
		h.failEntitlement(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.entitlement.recalculate", "entitlement", ent.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, ent); err != nil {
		slog.Warn("audit leave.entitlement.recalculate failed", "err", err)
	}
	api.Success(w, ent, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var input entitlement.AdjustmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	ent, err := h.Service.Adjust(r.Context(), user.UserID, input)
	if err != nil {
		h.failEntitlement(w, r, err)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "leave.entitlement.adjust", "entitlement", ent.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, input); err != nil {
		slog.Warn("audit leave.entitlement.adjust failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), input.EmployeeID, notifications.TypeEntitlementAdjusted,
		"Leave balance adjusted",
		"Your leave balance was adjusted: "+input.Reason); err != nil {
		slog.Warn("entitlement adjust notification failed", "err", err)
	}
	api.Success(w, ent, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAdjustments(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	items, total, err := h.Service.ListAdjustments(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "leaveTypeID"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "adjustment_list_failed", "failed to list adjustments", middleware.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []entitlement.BalanceAdjustment{}
	}
	api.SuccessList(w, items, total, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAnnualReset(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Jobs.RunNow(r.Context(), jobs.JobEntitlementReset, func(ctx context.Context) (any, error) {
		return h.Service.RunAnnualReset(ctx, time.Now())
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reset_failed", "annual reset failed", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.entitlement.reset", "entitlement", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, summary); err != nil {
		slog.Warn("audit leave.entitlement.reset failed", "err", err)
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failEntitlement(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, entitlement.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "entitlement not found", requestID)
	case errors.Is(err, entitlement.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, entitlement.ErrLeaveTypeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", requestID)
	case errors.Is(err, entitlement.ErrTypeNotApproved):
		api.Fail(w, http.StatusConflict, "type_not_approved", "leave type is not approved", requestID)
	case errors.Is(err, entitlement.ErrInvalidAdjustment):
		api.Fail(w, http.StatusBadRequest, "invalid_adjustment", "invalid adjustment payload", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "entitlement_failed", "entitlement operation failed", requestID)
	}
}
