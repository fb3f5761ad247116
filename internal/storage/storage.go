package storage

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"
)

// Package storage contains the content-addressable blob store used for
// uploaded document bytes. Blobs are keyed by a caller-supplied namespace
// and content hash; the store holds no business logic and never re-hashes.

// Errors returned by ContentStore implementations.
var (
	// ErrInvalidNamespace indicates the namespace failed the safe-identifier
	// check. Returned before any path or key construction takes place.
	ErrInvalidNamespace = errors.New("storage: invalid namespace")

	// ErrInvalidLocation indicates a malformed locator or hash, including
	// path traversal attempts.
	ErrInvalidLocation = errors.New("storage: invalid location")

	// ErrNotFound indicates the requested location does not exist.
	ErrNotFound = errors.New("storage: object not found")

	// ErrWriteFailed indicates the backend could not persist the bytes.
	ErrWriteFailed = errors.New("storage: write failed")
)

// ContentStore is the byte storage contract shared by the filesystem and
// S3-compatible backends.
//
// Locations returned by Put are opaque: callers persist and hand them back
// verbatim, never reconstruct them by concatenation.
type ContentStore interface {
	// Put stores data under the given namespace and content hash and returns
	// the location of the blob. Writing the same (namespace, hash) twice is
	// idempotent; identical hash implies identical bytes, so the second
	// write simply overwrites. The extension is cosmetic and sanitized to a
	// short allow-listed set of characters.
	Put(ctx context.Context, namespace, hash, extension string, data []byte) (string, error)

	// Get returns the bytes stored at location. Fails with ErrNotFound when
	// the location does not exist.
	Get(ctx context.Context, location string) ([]byte, error)

	// Delete removes the blob at location. Deleting an absent location is
	// not an error; a prior delete or manual cleanup must not surface as a
	// failure to the caller.
	Delete(ctx context.Context, location string) error
}

var (
	namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	hashPattern      = regexp.MustCompile(`^[a-f0-9]{1,128}$`)
	extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)
)

// validateNamespace rejects any namespace that is not a bounded
// safe identifier. It must run before the namespace is used in any path or
// object key: a hostile value is rejected outright, never truncated or
// escaped into something "safe".
func validateNamespace(namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return ErrInvalidNamespace
	}
	return nil
}

// validateHash rejects anything that is not a lowercase hex digest. The
// store trusts the caller to have computed the hash but not to have kept it
// free of path characters.
func validateHash(hash string) error {
	if !hashPattern.MatchString(hash) {
		return ErrInvalidLocation
	}
	return nil
}

// validateLocation rejects locators that are empty, absolute, contain
// backslashes, or climb out of the storage root.
func validateLocation(location string) error {
	if location == "" || strings.HasPrefix(location, "/") || strings.Contains(location, `\`) {
		return ErrInvalidLocation
	}
	cleaned := path.Clean(location)
	if cleaned != location || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ErrInvalidLocation
	}
	return nil
}

// sanitizeExtension normalizes the supplied extension to lowercase without
// the leading dot. Anything outside the allow-list is dropped entirely; the
// extension only decorates the blob name and is never part of a lookup.
func sanitizeExtension(extension string) string {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if !extensionPattern.MatchString(ext) {
		return ""
	}
	return ext
}

// objectName builds the blob file/object name from a hash and a sanitized
// extension.
func objectName(hash, extension string) string {
	if ext := sanitizeExtension(extension); ext != "" {
		return hash + "." + ext
	}
	return hash
}
