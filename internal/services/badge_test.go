package services

import (
	"testing"

	"greensteps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossedBadges(t *testing.T) {
	crossed := CrossedBadges(0, 10)
	require.Len(t, crossed, 1)
	assert.Equal(t, "first-steps", crossed[0].Slug)

	// threshold is exclusive on the previous side
	assert.Empty(t, CrossedBadges(10, 50))

	crossed = CrossedBadges(90, 600)
	require.Len(t, crossed, 2)
	assert.Equal(t, "green-sprout", crossed[0].Slug)
	assert.Equal(t, "eco-warrior", crossed[1].Slug)

	assert.Empty(t, CrossedBadges(500, 500))
	assert.Empty(t, CrossedBadges(2000, 2500))

	crossed = CrossedBadges(0, 5000)
	assert.Len(t, crossed, len(models.Badges), "a big enough jump earns everything")
}
