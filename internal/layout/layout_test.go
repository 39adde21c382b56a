package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerOrder(t *testing.T) {
	want := []int{
		0, 1, 2, 3, 4, 5, 6, 7,
		13, 12, 11, 10, 9, 8,
		18, 19, 20, 21, 22, 23,
		28, 27,
	}
	assert.Equal(t, want, Controller.Order())
	assert.Equal(t, len(want), Controller.Len())
}

func TestIndexMatchesOrder(t *testing.T) {
	order := Controller.Order()
	for p, want := range order {
		got, ok := Controller.Index(p)
		require.True(t, ok, "position %d", p)
		assert.Equal(t, want, got, "position %d", p)
	}
	_, ok := Controller.Index(len(order))
	assert.False(t, ok)
}

func TestRunLen(t *testing.T) {
	assert.Equal(t, 1, Run{From: 4, To: 4}.Len())
	assert.Equal(t, 6, Run{From: 13, To: 8}.Len())
	assert.True(t, Run{From: 13, To: 8}.Reversed())
	assert.False(t, Run{From: 8, To: 13}.Reversed())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Controller.Validate(32))

	err := Controller.Validate(24)
	assert.True(t, errors.Is(err, ErrOutOfRange), "got %v", err)

	assert.Error(t, Chain{}.Validate(32))
	assert.Error(t, Chain{{From: -1, To: 3}}.Validate(32))
}
