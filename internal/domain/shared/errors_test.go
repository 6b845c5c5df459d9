package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("loading booking: %w", NotFound("booking"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "booking not found", de.Message)
}

func TestWrapDomainError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := WrapDomainError("UPSTREAM_ERROR", "solapi send failed", cause)

	assert.Equal(t, "solapi send failed: dial tcp: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 5000, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 1000, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, PageSize: 20, OrderDir: "asc"}.Normalize()
	assert.Equal(t, 40, f.Offset())
	assert.Equal(t, "asc", f.OrderDir)
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
