package pipeline

import (
	"testing"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/stretchr/testify/assert"
)

func TestSinkBackoffSchedule(t *testing.T) {
	want := []time.Duration{
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
		5 * time.Second,
		5 * time.Second,
	}

	got := make([]time.Duration, 0, len(want))
	for d := initialBackoff; len(got) < len(want); d = retry.NextBackoff(d, maxBackoff) {
		got = append(got, d)
	}
	assert.Equal(t, want, got)
}
