package recruitment

// TransitionAllowed enforces the requisition lifecycle: drafts are
// published, published openings are closed, closed is terminal.
func TransitionAllowed(from, to string) bool {
	switch from {
	case RequisitionDraft:
		return to == RequisitionPublished
	case RequisitionPublished:
		return to == RequisitionClosed
	default:
		return false
	}
}

func FillRate(filled, headcount int) float64 {
	if headcount <= 0 {
		return 0
	}
	return float64(filled) / float64(headcount)
}
