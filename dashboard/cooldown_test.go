package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownCountsDown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := NewCooldown(2*time.Minute, clock.Now)

	assert.False(t, c.Active())
	assert.Zero(t, c.Remaining())

	c.Start()
	assert.Equal(t, 120, c.Remaining())

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 120, c.Remaining(), "partial seconds round up")

	clock.Advance(119 * time.Second)
	assert.Equal(t, 1, c.Remaining())
	assert.True(t, c.Active())

	clock.Advance(time.Second)
	assert.Zero(t, c.Remaining())
	assert.False(t, c.Active())
}

func TestFormatCountdown(t *testing.T) {
	tests := map[int]string{
		120: "2:00",
		119: "1:59",
		65:  "1:05",
		9:   "0:09",
		0:   "0:00",
		-3:  "0:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCountdown(in), "FormatCountdown(%d)", in)
	}
}
