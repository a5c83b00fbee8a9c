package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, "America/Denver", Location("America/Denver").String())
}

func TestStartOfDay(t *testing.T) {
	loc := Location("America/Denver")
	ts := time.Date(2026, 7, 4, 18, 45, 12, 0, loc)

	got := StartOfDay(ts)
	assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, loc), got)
}
