package configentity

import (
	"errors"
	"time"
)

const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrNotFound          = errors.New("config entity not found")
	ErrNotEditable       = errors.New("config entity is not editable in its current status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Meta holds the server-assigned lifecycle state shared by every
// configuration entity. Domain structs embed it.
type Meta struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a status change is allowed. The only
// legal transitions are draft to approved and draft to rejected.
func CanTransition(from, to string) bool {
	if from != StatusDraft {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

// CanMutate reports whether an entity in the given status may be edited
// or deleted. Drafts always can; approved entities only when the entity
// type opts in; rejected entities never.
func CanMutate(status string, editableWhenApproved bool) bool {
	switch status {
	case StatusDraft:
		return true
	case StatusApproved:
		return editableWhenApproved
	default:
		return false
	}
}
