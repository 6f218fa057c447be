package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	limit, offset := Paginate(0, 0)
	assert.Equal(t, DEFAULT_PAGE_LIMIT, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Paginate(1, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Paginate(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, _ = Paginate(1, 10000)
	assert.Equal(t, MAX_PAGE_LIMIT, limit)

	limit, offset = Paginate(-5, -1)
	assert.Equal(t, DEFAULT_PAGE_LIMIT, limit)
	assert.Equal(t, 0, offset)
}
