package util

import "github.com/google/uuid"

// NewID returns a prefixed record id, e.g. "doc_6f1c…".
func NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
