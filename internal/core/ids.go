package core

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time so record timestamps can be fixed in tests
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// IDFunc returns a new record id with the given prefix
type IDFunc func(prefix string) string

func newRecordID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
