package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowFromThreshold(t *testing.T) {
	t.Parallel()

	window := WindowFromThreshold(2*time.Hour + 30*time.Minute + 5*time.Second)
	assert.Equal(t, CooldownWindow{Hours: 2, Minutes: 30, Seconds: 5}, window)
	assert.Equal(t, "02h:30m:05s", window.String())

	assert.Equal(t, "00h:00m:00s", WindowFromThreshold(0).String())
}
