// Package content holds the public site's editable text values: the
// fetched snapshot consumers read from, and the literal defaults used
// when a value has never been set or the store is unreachable.
package content

import (
	"github.com/spotlesscleaning/site-server-go/internal/model"
)

// Snapshot is an immutable view of the content store taken once per page
// load. Consumers never query the store mid-render.
type Snapshot struct {
	entries []model.ContentEntry
}

func NewSnapshot(entries []model.ContentEntry) *Snapshot {
	return &Snapshot{entries: entries}
}

// Empty returns a snapshot with no entries; every Get falls back.
func Empty() *Snapshot {
	return &Snapshot{}
}

// Get returns the value of the first entry matching both section and key
// exactly (case-sensitive), or fallback when no such entry exists. A
// stored empty string is returned as-is; fallback applies only to absent
// pairs.
func (s *Snapshot) Get(section, key, fallback string) string {
	for _, e := range s.entries {
		if e.Section == section && e.Key == key {
			return e.Value
		}
	}
	return fallback
}

func (s *Snapshot) Entries() []model.ContentEntry {
	return s.entries
}

func (s *Snapshot) Len() int {
	return len(s.entries)
}
