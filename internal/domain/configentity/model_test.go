package configentity

import "testing"

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusDraft, StatusApproved, StatusRejected} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"", "pending", "DRAFT", "archived"} {
		if ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = true, want false", status)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusDraft, StatusApproved, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusDraft, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusDraft, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusDraft, false},
		{"bogus", StatusApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanMutate(t *testing.T) {
	cases := []struct {
		status               string
		editableWhenApproved bool
		want                 bool
	}{
		{StatusDraft, false, true},
		{StatusDraft, true, true},
		{StatusApproved, false, false},
		{StatusApproved, true, true},
		{StatusRejected, false, false},
		{StatusRejected, true, false},
		{"bogus", true, false},
	}
	for _, tc := range cases {
		if got := CanMutate(tc.status, tc.editableWhenApproved); got != tc.want {
			t.Errorf("CanMutate(%q, %v) = %v, want %v", tc.status, tc.editableWhenApproved, got, tc.want)
		}
	}
}
