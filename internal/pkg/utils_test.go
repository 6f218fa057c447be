package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFirstTimeOfCurrentWeek(t *testing.T) {
	weekStart := GetFirstTimeOfCurrentWeek()

	assert.Equal(t, time.Monday, weekStart.Weekday())
	assert.Equal(t, 0, weekStart.Hour())
	assert.Equal(t, 0, weekStart.Minute())
	assert.Equal(t, time.UTC, weekStart.Location())
	assert.False(t, weekStart.After(time.Now().UTC()))
	assert.True(t, time.Now().UTC().Sub(weekStart) < 7*24*time.Hour)
}
