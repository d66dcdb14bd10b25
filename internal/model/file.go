package model

import "time"

// UploadedFile records the provenance of a CSV upload. Only metadata is
// kept; file contents are parsed in-memory and never stored.
type UploadedFile struct {
	ID         int64
	Filename   string
	OwnerID    int64
	UploadedAt time.Time
}
