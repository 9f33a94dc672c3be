package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactMatch(t *testing.T) {
	assert.True(t, ExactMatch("Real Cédula", "Real Cédula"))
	assert.True(t, ExactMatch("  Real Cédula ", "Real Cédula"))
	assert.False(t, ExactMatch("Real Cédula", "real cédula"), "case-sensitive")
	assert.False(t, ExactMatch("Real Cédula", "Real Cedula"), "diacritics matter")
	assert.True(t, ExactMatch("", "   "), "both blank compare equal after trim")
}

func TestShared(t *testing.T) {
	assert.Equal(t, []string{"Felipe II"}, Shared(
		[]string{"Felipe II", "Juan de Mendoza"},
		[]string{"Felipe II"},
	))

	// Repeated mentions count once.
	assert.Equal(t, []string{"Felipe II"}, Shared(
		[]string{"Felipe II", "Felipe II", "Felipe II"},
		[]string{"Felipe II", "Felipe II"},
	))

	// Order follows the first argument.
	assert.Equal(t, []string{"b", "a"}, Shared(
		[]string{"b", "a", "c"},
		[]string{"a", "b"},
	))

	assert.Nil(t, Shared(nil, []string{"x"}))
	assert.Nil(t, Shared([]string{"x"}, nil))
}

func TestSetOverlap(t *testing.T) {
	assert.Equal(t, 2, SetOverlap(
		[]string{"Felipe II", "Juan de Mendoza"},
		[]string{"Juan de Mendoza", "Felipe II", "Isabel"},
	))
	assert.Equal(t, 0, SetOverlap([]string{"a"}, []string{"b"}))
}

func TestPrefixOverlap(t *testing.T) {
	a := "En la ciudad de Sevilla,  a veinte días del mes de marzo"
	b := "En la ciudad de Sevilla, a veinte días del mes de marzo"
	assert.True(t, PrefixOverlap(a, b, 100), "whitespace runs are normalized")

	assert.True(t, PrefixOverlap("abcdef", "abcdxx", 4))
	assert.False(t, PrefixOverlap("abcdef", "abcdxx", 5))

	// Shorter strings compare whole against the other's prefix.
	assert.False(t, PrefixOverlap("abc", "abcdef", 100))
	assert.True(t, PrefixOverlap("abc", "abc", 100))

	// Multi-byte text is compared by character, not byte.
	assert.True(t, PrefixOverlap("cédula real", "cédula real de mil quinientos", 11))
}
