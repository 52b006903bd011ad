package notifications

const (
	TypeTerminationSubmitted = "termination_submitted"
	TypeTerminationApproved  = "termination_approved"
	TypeTerminationRejected  = "termination_rejected"
	TypeClearanceCleared     = "clearance_fully_cleared"
	TypeEntitlementAdjusted  = "entitlement_adjusted"
	TypeConfigApproved       = "config_approved"
	TypeConfigRejected       = "config_rejected"
	TypeRequisitionPublished = "requisition_published"
)
