package offboarding

// AllowedClearanceTargets lists the statuses a clearance item may move
// to from its current status. Staying put is always allowed; an item
// that has left pending can never return to it, and approved/rejected
// are terminal.
func AllowedClearanceTargets(from string) []string {
	switch from {
	case ClearancePending:
		return []string{ClearancePending, ClearanceUnderReview, ClearanceApproved, ClearanceRejected}
	case ClearanceUnderReview:
		return []string{ClearanceUnderReview, ClearanceApproved, ClearanceRejected}
	case ClearanceApproved:
		return []string{ClearanceApproved}
	case ClearanceRejected:
		return []string{ClearanceRejected}
	default:
		return nil
	}
}

func ClearanceTransitionAllowed(from, to string) bool {
	for _, target := range AllowedClearanceTargets(from) {
		if target == to {
			return true
		}
	}
	return false
}

// ComputeProgress counts department clearances, equipment returns and
// the card flag as one unit each.
func ComputeProgress(c Checklist) Progress {
	total := len(c.Clearances) + len(c.Equipment) + 1
	cleared := 0
	for _, item := range c.Clearances {
		if item.Status == ClearanceApproved {
			cleared++
		}
	}
	for _, item := range c.Equipment {
		if item.Returned {
			cleared++
		}
	}
	if c.CardReturned {
		cleared++
	}

	progress := Progress{Cleared: cleared, Total: total}
	if total > 0 {
		progress.Percent = float64(cleared) / float64(total)
	}
	progress.AllCleared = DeriveOverallStatus(c) == OverallFullyCleared
	return progress
}

// DeriveOverallStatus folds the checklist into a single status: any
// rejected clearance means issues, everything cleared means done,
// otherwise the offboarding is still in progress.
func DeriveOverallStatus(c Checklist) string {
	allApproved := true
	for _, item := range c.Clearances {
		if item.Status == ClearanceRejected {
			return OverallClearanceIssues
		}
		if item.Status != ClearanceApproved {
			allApproved = false
		}
	}
	for _, item := range c.Equipment {
		if !item.Returned {
			allApproved = false
		}
	}
	if !c.CardReturned {
		allApproved = false
	}
	if allApproved && len(c.Clearances) > 0 {
		return OverallFullyCleared
	}
	return OverallInProgress
}
