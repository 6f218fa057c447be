package services

import (
	"testing"

	"greensteps/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestProgressDelta(t *testing.T) {
	log := &models.ActionLog{PointsEarned: 25, CO2Saved: 3.5}

	delta, ok := ProgressDelta(models.MetricActions, log)
	assert.True(t, ok)
	assert.Equal(t, float64(1), delta)

	delta, ok = ProgressDelta(models.MetricPoints, log)
	assert.True(t, ok)
	assert.Equal(t, float64(25), delta)

	delta, ok = ProgressDelta(models.MetricCO2, log)
	assert.True(t, ok)
	assert.Equal(t, 3.5, delta)

	_, ok = ProgressDelta(models.ChallengeMetric("steps"), log)
	assert.False(t, ok)
}
