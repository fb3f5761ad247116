package model

import "time"

// Document is an uploaded file attached to a single report. The raw bytes
// live in the content store under StorageLocation; this row carries the
// metadata only.
//
// Documents have no owner field of their own: access rights are always
// resolved through the parent report's OwnerID.
type Document struct {
	ID       string `json:"id"`
	ReportID string `json:"report_id"`
	// Filename is the name supplied by the uploader. Descriptive only,
	// never used as a storage key.
	Filename string `json:"filename"`
	// ContentHash is the hex-encoded SHA-256 digest of the uploaded bytes.
	// Unique among the active documents of a report.
	ContentHash string `json:"content_hash"`
	// StorageLocation is the opaque locator returned by the content store.
	StorageLocation string `json:"storage_location"`
	// ExtractedText holds the plain text parsed from the uploaded bytes.
	// Nil when extraction was not attempted or failed.
	ExtractedText *string    `json:"extracted_text,omitempty"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the document has been soft-deleted.
func (d *Document) Deleted() bool {
	return d.DeletedAt != nil
}
