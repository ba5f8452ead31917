package utils

import (
	"context"
	"testing"
	"time"

	"golang-p2p-risk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: "2024-05-01T13:30:00Z", want: want},
		{name: "rfc3339 with offset", input: "2024-05-01T19:00:00+05:30", want: want},
		{name: "no zone", input: "2024-05-01 13:30:00", want: want},
		{name: "minutes", input: "2024-05-01 13:30", want: want},
		{name: "date only", input: " 2024-05-01 ", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "unix seconds", input: "1714570200", want: want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestShouldContinue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.True(t, ShouldContinue(ctx, logger.NewNop()))
	cancel()
	assert.False(t, ShouldContinue(ctx, logger.NewNop()))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "+12.50%", FormatPercentage(0.125))
	assert.Equal(t, "-3.00%", FormatPercentage(-0.03))
	assert.True(t, ContainsString([]string{"json", "yaml"}, "yaml"))
	assert.False(t, ContainsString(nil, "json"))
}
