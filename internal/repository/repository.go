package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres for production, memory for
// tests and local development). No business logic here: soft-delete state is
// written by callers through Save; repositories only interpret it when
// filtering reads.

var (
	// ErrNotFound indicates no matching row exists (or it is soft-deleted,
	// for lookups that only see active rows).
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict indicates a uniqueness violation, e.g. a second active
	// document with the same content hash inside one report.
	ErrConflict = errors.New("repository: conflict")
)
