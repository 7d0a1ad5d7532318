package storage

import (
	"slices"
	"time"
)

// MediaRecord is one stored photo. Image holds a self-contained data URL.
type MediaRecord struct {
	ID        string    `json:"id"`
	Image     string    `json:"dataUrl"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// TextRecord is one stored note
type TextRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindMedia finds a media record by id
func FindMedia(list []MediaRecord, id string) (MediaRecord, bool) {
	for _, m := range list {
		if m.ID == id {
			return m, true
		}
	}
	return MediaRecord{}, false
}

// FindText finds a text record by id
func FindText(list []TextRecord, id string) (TextRecord, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return TextRecord{}, false
}

// RemoveText returns the collection without the record with the given id,
// and whether anything was removed. The input slice is not modified.
func RemoveText(list []TextRecord, id string) ([]TextRecord, bool) {
	out := make([]TextRecord, 0, len(list))
	removed := false
	for _, t := range list {
		if t.ID == id {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out, removed
}

// NewestMedia returns a copy of the collection, most recently created first
func NewestMedia(list []MediaRecord) []MediaRecord {
	out := slices.Clone(list)
	slices.Reverse(out)
	return out
}

// NewestText returns a copy of the collection, most recently created first
func NewestText(list []TextRecord) []TextRecord {
	out := slices.Clone(list)
	slices.Reverse(out)
	return out
}
