package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_AutoExtend(t *testing.T) {
	a := NewArray([]Value{Int(1), Int(2)})
	assert.Equal(t, 2, a.Len())

	v, err := a.Get(5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mustInt(t, v))
	assert.Equal(t, 6, a.Len(), "Get past the end should auto-extend with Int(0) fill")
}

func TestArray_SetAutoExtend(t *testing.T) {
	a := NewArray(nil)
	require.NoError(t, a.Set(3, Str("x")))
	assert.Equal(t, 4, a.Len())

	v, err := a.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mustInt(t, v))

	v, err = a.Get(3)
	require.NoError(t, err)
	s, _ := v.AsStr()
	assert.Equal(t, "x", s)
}

func TestArray_NegativeIndex(t *testing.T) {
	a := NewArray([]Value{Int(1)})
	_, err := a.Get(-1)
	require.Error(t, err)
	var idxErr *IndexError
	assert.ErrorAs(t, err, &idxErr)
}

func TestArray_SharedHandle(t *testing.T) {
	a := NewArray([]Value{Int(1)})
	v1 := FromArray(a)
	v2 := v1 // copies the Value, not the underlying Array

	arr, ok := v2.AsArray()
	require.True(t, ok)
	require.NoError(t, arr.Set(0, Int(99)))

	got, _ := a.Get(0)
	assert.Equal(t, int64(99), mustInt(t, got), "Array is a shared handle across Value copies")
}
