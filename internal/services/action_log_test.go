package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSubmission(t *testing.T) {
	assert.NoError(t, ValidateSubmission("cycled to work", true))
	assert.NoError(t, ValidateSubmission("", true))
	assert.NoError(t, ValidateSubmission(strings.Repeat("a", 500), true))

	err := ValidateSubmission(strings.Repeat("a", 501), true)
	assert.ErrorContains(t, err, "notes exceed 500 characters")

	// the cap is characters, not bytes
	assert.NoError(t, ValidateSubmission(strings.Repeat("ä", 500), true))
	assert.ErrorContains(t, ValidateSubmission(strings.Repeat("ä", 501), true), "notes exceed 500 characters")
}

func TestValidateSubmissionRequiresPhoto(t *testing.T) {
	err := ValidateSubmission("cycled to work", false)
	assert.ErrorContains(t, err, "photographic proof required")

	// missing proof wins even when the notes are invalid too
	err = ValidateSubmission(strings.Repeat("a", 501), false)
	assert.ErrorContains(t, err, "photographic proof required")
}
