package recruitment

import "testing"

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{RequisitionDraft, RequisitionPublished, true},
		{RequisitionDraft, RequisitionClosed, false},
		{RequisitionDraft, RequisitionDraft, false},
		{RequisitionPublished, RequisitionClosed, true},
		{RequisitionPublished, RequisitionDraft, false},
		{RequisitionClosed, RequisitionPublished, false},
		{RequisitionClosed, RequisitionDraft, false},
		{"bogus", RequisitionPublished, false},
	}
	for _, tc := range cases {
		if got := TransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Errorf("TransitionAllowed(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestFillRate(t *testing.T) {
	cases := []struct {
		filled, headcount int
		want              float64
	}{
		{0, 4, 0},
		{1, 4, 0.25},
		{4, 4, 1},
		{2, 0, 0},
		{2, -1, 0},
	}
	for _, tc := range cases {
		if got := FillRate(tc.filled, tc.headcount); got != tc.want {
			t.Errorf("FillRate(%d, %d) = %v, want %v", tc.filled, tc.headcount, got, tc.want)
		}
	}
}
