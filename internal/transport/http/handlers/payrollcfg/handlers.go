package payrollcfghandler

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/domain/configentity"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/domain/payrollcfg"
	"peopleops/internal/transport/http/handlers/configresource"
	"peopleops/internal/transport/http/middleware"
)

type Handler struct {
	DB     *pgxpool.Pool
	Perms  middleware.PermissionStore
	Audit  *audit.Service
	Notify *notifications.Service
}

func NewHandler(db *pgxpool.Pool, perms middleware.PermissionStore, auditSvc *audit.Service, notify *notifications.Service) *Handler {
	return &Handler{DB: db, Perms: perms, Audit: auditSvc, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deps := configresource.Deps{
		Perms:       h.Perms,
		Audit:       h.Audit,
		Notify:      h.Notify,
		ReadPerm:    auth.PermPayrollRead,
		WritePerm:   auth.PermPayrollWrite,
		ApprovePerm: auth.PermPayrollApprove,
		AuditPrefix: "payroll",
	}

	r.Route("/payroll", func(r chi.Router) {
		configresource.Register(r, "allowances", configentity.NewResource(h.DB, payrollcfg.AllowanceDef), deps)
		configresource.Register(r, "insurance-brackets", configentity.NewResource(h.DB, payrollcfg.InsuranceBracketDef), deps)
		configresource.Register(r, "pay-grades", configentity.NewResource(h.DB, payrollcfg.PayGradeDef), deps)
		configresource.Register(r, "pay-types", configentity.NewResource(h.DB, payrollcfg.PayTypeDef), deps)
		configresource.Register(r, "policies", configentity.NewResource(h.DB, payrollcfg.PayrollPolicyDef), deps)
		configresource.Register(r, "signing-bonuses", configentity.NewResource(h.DB, payrollcfg.SigningBonusDef), deps)
		configresource.Register(r, "tax-rules", configentity.NewResource(h.DB, payrollcfg.TaxRuleDef), deps)
		configresource.Register(r, "termination-benefits", configentity.NewResource(h.DB, payrollcfg.TerminationBenefitDef), deps)
	})
}
