package roomid

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducesValidCodes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := New()
		require.NoError(t, Validate(code))
		seen[code] = true
	}
	assert.Greater(t, len(seen), 99, "collisions in 100 draws are a red flag")
}

func TestGeneratorIsDeterministicWithInjectedSource(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewPCG(4, 4))).New()
	b := NewGenerator(rand.New(rand.NewPCG(4, 4))).New()
	assert.Equal(t, a, b)
	require.NoError(t, Validate(a))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "AB01X2", Normalize("abOlx2"))
	assert.Equal(t, "111000", Normalize("ilLoOo"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("AB01X2"))
	assert.Error(t, Validate("short"))
	assert.Error(t, Validate("AB01XU"), "U is not in the alphabet")
	assert.Error(t, Validate("ab01x2"), "codes are canonically uppercase")
}
