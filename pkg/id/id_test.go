package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Monotonic(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	prev := NewAt(at)
	for i := 0; i < 100; i++ {
		next := NewAt(at)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestNew_Parses(t *testing.T) {
	got := New()
	require.Len(t, got, 26)

	parsed, err := ulid.Parse(got)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ulid.Time(parsed.Time()), time.Minute)
}
