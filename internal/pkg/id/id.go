package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID for the current time.
func New() string { return NewAt(time.Now()) }

// NewAt returns a ULID whose timestamp part is t, so object keys under one
// prefix list in upload order.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
