package roomid

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Crockford's base32: no I, L, O or U, so codes survive being read
// aloud or typed from a chat message.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Length of a room code in characters.
const Length = 6

// RandSource is the randomness a Generator draws from. Tests inject a
// deterministic one.
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource means crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// New creates a room code using crypto/rand.
func New() string {
	return NewGenerator(nil).New()
}

// New creates a room code using the generator's RandSource.
func (g *Generator) New() string {
	code := make([]byte, Length)
	if g.randSource != nil {
		for i := range code {
			code[i] = alphabet[g.randSource.IntN(len(alphabet))]
		}
		return string(code)
	}

	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to generate room code: " + err.Error())
	}
	for i, b := range buf {
		code[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(code)
}

// Normalize uppercases a code and maps the easily confused characters
// onto their canonical ones.
func Normalize(id string) string {
	id = strings.ToUpper(id)
	id = strings.NewReplacer("I", "1", "L", "1", "O", "0").Replace(id)
	return id
}

// Validate checks that a room code is well-formed.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
