package model

import "time"

// Package model contains the domain entities shared across layers.
// Pure structs with no database-specific dependencies or tags, so they can
// move between HTTP, service, repository, and storage code without coupling
// any layer to persistence details.

// Report is a user-owned container of markdown content that documents are
// attached to. OwnerID is fixed at creation and never reassigned.
//
// A nil DeletedAt means the report is active. Soft deletion only ever sets
// the timestamp; nothing in the system clears it again.
type Report struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the report has been soft-deleted.
func (r *Report) Deleted() bool {
	return r.DeletedAt != nil
}
