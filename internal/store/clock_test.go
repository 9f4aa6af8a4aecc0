package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockNextAdvancesCurrentObserves(t *testing.T) {
	var c Clock

	assert.Equal(t, int64(0), c.Current())

	first := c.Next()
	second := c.Next()
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	// Current never advances the clock.
	assert.Equal(t, second, c.Current())
	assert.Equal(t, second, c.Current())
}
