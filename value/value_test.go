package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	sum, err := Int(2).Add(Int(3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), mustInt(t, sum))

	prod, err := Float(2.5).Mul(Float(4))
	require.NoError(t, err)
	f, ok := prod.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 10.0, f)

	concat, err := Str("foo").Add(Str("bar"))
	require.NoError(t, err)
	s, _ := concat.AsStr()
	assert.Equal(t, "foobar", s)
}

func TestArithmetic_TypeMismatch(t *testing.T) {
	_, err := Int(1).Add(Str("x"))
	require.Error(t, err)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestDiv_ByZero(t *testing.T) {
	_, err := Int(1).Div(Int(0))
	require.Error(t, err)
}

func TestComparisons(t *testing.T) {
	lt, err := Int(1).Lt(Int(2))
	require.NoError(t, err)
	b, _ := lt.AsBool()
	assert.True(t, b)

	eq, err := Str("a").Eq(Str("a"))
	require.NoError(t, err)
	b, _ = eq.AsBool()
	assert.True(t, b)
}

func TestNegateAndNot(t *testing.T) {
	neg, err := Int(5).Negate()
	require.NoError(t, err)
	assert.Equal(t, int64(-5), mustInt(t, neg))

	not, err := Bool(true).Not()
	require.NoError(t, err)
	b, _ := not.AsBool()
	assert.False(t, b)

	_, err = Str("x").Negate()
	assert.Error(t, err)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "5", Int(5).ToString())
	assert.Equal(t, "true", Bool(true).ToString())
	assert.Equal(t, "None", None().ToString())
	assert.Equal(t, "hi", Str("hi").ToString())
}

func mustInt(t *testing.T, v Value) int64 {
	t.Helper()
	i, ok := v.AsInt()
	if !ok {
		t.Fatalf("value %v is not an Int", v)
	}
	return i
}
