// Package configresource exposes the shared CRUD + approval routes for
// configuration entities. Every configuration page (allowances, pay
// grades, leave types, ...) registers through Register so list
// filtering, status transitions and audit trails behave identically.
package configresource

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/configentity"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/domain/payrollcfg"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Deps struct {
	Perms       middleware.PermissionStore
	Audit       *audit.Service
	Notify      *notifications.Service
	ReadPerm    string
	WritePerm   string
	ApprovePerm string
	AuditPrefix string
}

type statusRequest struct {
	Status string `json:"status"`
}

func Register[T any](r chi.Router, path string, res *configentity.Resource[T], deps Deps) {
	r.Route("/"+path, func(r chi.Router) {
		r.With(middleware.RequirePermission(deps.ReadPerm, deps.Perms)).Get("/", handleList(res))
		r.With(middleware.RequirePermission(deps.ReadPerm, deps.Perms)).Get("/{entityID}", handleGet(res))
		r.With(middleware.RequirePermission(deps.WritePerm, deps.Perms)).Post("/", handleCreate(res, deps))
		r.With(middleware.RequirePermission(deps.WritePerm, deps.Perms)).Put("/{entityID}", handleUpdate(res, deps))
		r.With(middleware.RequirePermission(deps.WritePerm, deps.Perms)).Delete("/{entityID}", handleDelete(res, deps))
		r.With(middleware.RequirePermission(deps.ApprovePerm, deps.Perms)).Patch("/{entityID}/status", handleStatus(res, deps))
	})
}

func handleList[T any](res *configentity.Resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := shared.ParseListQuery(r)
		if q.Status != "" && !configentity.ValidStatus(q.Status) {
			api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown status filter", middleware.GetRequestID(r.Context()))
			return
		}
		items, total, err := res.List(r.Context(), q)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list "+res.Def().Name, middleware.GetRequestID(r.Context()))
			return
		}
		if items == nil {
			items = []T{}
		}
		api.SuccessList(w, items, total, middleware.GetRequestID(r.Context()))
	}
}

func handleGet[T any](res *configentity.Resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity, err := res.Get(r.Context(), chi.URLParam(r, "entityID"))
		if err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		api.Success(w, entity, middleware.GetRequestID(r.Context()))
	}
}

func handleCreate[T any](res *configentity.Resource[T], deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}
		var payload T
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err := res.Create(r.Context(), &payload); err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		recordAudit(r, deps, user.UserID, "create", res.Def().Name, nil, payload)
		api.Created(w, payload, middleware.GetRequestID(r.Context()))
	}
}

func handleUpdate[T any](res *configentity.Resource[T], deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}
		entityID := chi.URLParam(r, "entityID")
		before, err := res.Get(r.Context(), entityID)
		if err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		var payload T
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err := res.Update(r.Context(), entityID, &payload); err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		recordAudit(r, deps, user.UserID, "update", res.Def().Name, before, payload)
		api.Success(w, payload, middleware.GetRequestID(r.Context()))
	}
}

func handleDelete[T any](res *configentity.Resource[T], deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}
		entityID := chi.URLParam(r, "entityID")
		before, err := res.Get(r.Context(), entityID)
		if err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		if err := res.Delete(r.Context(), entityID); err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		recordAudit(r, deps, user.UserID, "delete", res.Def().Name, before, nil)
		api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
	}
}

func handleStatus[T any](res *configentity.Resource[T], deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}
		entityID := chi.URLParam(r, "entityID")
		var payload statusRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err := res.UpdateStatus(r.Context(), entityID, payload.Status); err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		entity, err := res.Get(r.Context(), entityID)
		if err != nil {
			failResource(w, r, res.Def().Name, err)
			return
		}
		recordAudit(r, deps, user.UserID, payload.Status, res.Def().Name, nil, entity)
		notifyStatus(r, deps, res.Def().Name, entityID, payload.Status)
		api.Success(w, entity, middleware.GetRequestID(r.Context()))
	}
}

func recordAudit(r *http.Request, deps Deps, actorID, verb, resource string, before, after any) {
	if deps.Audit == nil {
		return
	}
	action := deps.AuditPrefix + "." + resource + "." + verb
	entityID := chi.URLParam(r, "entityID")
	if err := deps.Audit.Record(r.Context(), actorID, action, resource, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func notifyStatus(r *http.Request, deps Deps, resource, entityID, status string) {
	if deps.Notify == nil {
		return
	}
	ntype := notifications.TypeConfigApproved
	if status == configentity.StatusRejected {
		ntype = notifications.TypeConfigRejected
	}
	deps.Notify.NotifyRole(r.Context(), "hr", ntype,
		resource+" "+status,
		"Configuration entry "+entityID+" of "+resource+" was "+status+".")
}

func failResource(w http.ResponseWriter, r *http.Request, resource string, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, configentity.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", resource+" not found", requestID)
	case errors.Is(err, configentity.ErrNotEditable):
		api.Fail(w, http.StatusConflict, "not_editable", "approved entries cannot be modified", requestID)
	case errors.Is(err, configentity.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "status transition not allowed", requestID)
	case errors.Is(err, payrollcfg.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation on "+resource+" failed", requestID)
	}
}
