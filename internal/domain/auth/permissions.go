package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const (
	PermPayrollRead        = "payroll.read"
	PermPayrollWrite       = "payroll.write"
	PermPayrollApprove     = "payroll.approve"
	PermLeaveRead          = "leave.read"
	PermLeaveWrite         = "leave.write"
	PermLeaveAdjust        = "leave.adjust"
	PermOffboardingRead    = "offboarding.read"
	PermOffboardingWrite   = "offboarding.write"
	PermOffboardingApprove = "offboarding.approve"
	PermRecruitmentRead    = "recruitment.read"
	PermRecruitmentWrite   = "recruitment.write"
	PermAuditRead          = "audit.read"
	PermNotificationsRead  = "notifications.read"
	PermSystemAdmin        = "admin.system"
)

var DefaultPermissions = []string{
	PermPayrollRead,
	PermPayrollWrite,
	PermPayrollApprove,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveAdjust,
	PermOffboardingRead,
	PermOffboardingWrite,
	PermOffboardingApprove,
	PermRecruitmentRead,
	PermRecruitmentWrite,
	PermAuditRead,
	PermNotificationsRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermLeaveRead,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermNotificationsRead,
	},
	RoleManager: {
		PermPayrollRead,
		PermLeaveRead,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermRecruitmentRead,
		PermRecruitmentWrite,
		PermNotificationsRead,
	},
	RoleHR: {
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollApprove,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveAdjust,
		PermOffboardingRead,
		PermOffboardingWrite,
		PermOffboardingApprove,
		PermRecruitmentRead,
		PermRecruitmentWrite,
		PermAuditRead,
		PermNotificationsRead,
	},
	// The admin role is the bootstrap superuser; it carries every
	// permission so the seeded account can administer a fresh install.
	RoleAdmin: DefaultPermissions,
}

// Capability is the per-resource action set UIs use to gate controls.
type Capability struct {
	CanView    bool `json:"canView"`
	CanCreate  bool `json:"canCreate"`
	CanEdit    bool `json:"canEdit"`
	CanDelete  bool `json:"canDelete"`
	CanApprove bool `json:"canApprove"`
}

type capabilityPerms struct {
	view    string
	write   string
	approve string
}

var capabilityResources = map[string]capabilityPerms{
	"payrollConfig": {view: PermPayrollRead, write: PermPayrollWrite, approve: PermPayrollApprove},
	"leave":         {view: PermLeaveRead, write: PermLeaveWrite, approve: PermLeaveAdjust},
	"offboarding":   {view: PermOffboardingRead, write: PermOffboardingWrite, approve: PermOffboardingApprove},
	"recruitment":   {view: PermRecruitmentRead, write: PermRecruitmentWrite},
	"audit":         {view: PermAuditRead},
}

// Capabilities derives the capability set for a role from one shared
// table instead of letting each page re-derive its own gates.
func Capabilities(roleName string) map[string]Capability {
	granted := map[string]bool{}
	for _, perm := range RolePermissions[roleName] {
		granted[perm] = true
	}

	out := make(map[string]Capability, len(capabilityResources))
	for resource, perms := range capabilityResources {
		write := granted[perms.write]
		out[resource] = Capability{
			CanView:    granted[perms.view],
			CanCreate:  write,
			CanEdit:    write,
			CanDelete:  write,
			CanApprove: perms.approve != "" && granted[perms.approve],
		}
	}
	return out
}
