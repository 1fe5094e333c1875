package model

import (
	"time"
)

// ContentEntry is one editable text value on the public site, addressed
// by its (section, key) pair. At most one row exists per pair.
type ContentEntry struct {
	ID        int64     `db:"id" json:"-"`
	Section   string    `db:"section" json:"section"`
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type UpsertContentParams struct {
	Section string
	Key     string
	Value   string
}
