// Package genome defines the fixed-size genetic code carried by every
// creature, gender derivation, and the bitwise combination function used
// during breeding. All functions are pure; the package performs no I/O.
package genome

import (
	"encoding/hex"
	"fmt"
)

// Size is the length of a genetic code in bytes.
const Size = 16

// Genome is a creature's heritable code. It is immutable once a creature is
// created; new genomes are only ever produced for new creatures.
type Genome [Size]byte

// Gender is derived from a genome, never stored independently, so it can
// never drift out of sync with the genetic code.
type Gender string

// Genders derived from the parity of a genome's first byte.
const (
	Male   Gender = "male"
	Female Gender = "female"
)

// GenderOf returns Male when the genome's first byte is even, Female
// otherwise.
func GenderOf(g Genome) Gender {
	if g[0]%2 == 0 {
		return Male
	}
	return Female
}

// CombineByte builds one child byte from two parent bytes: the child bit is
// taken from p1 where the selector bit is 0 and from p2 where it is 1.
func CombineByte(p1, p2, selector byte) byte {
	return (^selector & p1) | (selector & p2)
}

// Combine applies CombineByte at every position. The child's bit pattern is
// composed entirely of bits drawn from one parent or the other, with the
// selector as the per-bit chooser.
func Combine(p1, p2, selector Genome) Genome {
	var child Genome
	for i := range child {
		child[i] = CombineByte(p1[i], p2[i], selector[i])
	}
	return child
}

// FromBytes copies b into a Genome. It returns an error unless b is exactly
// Size bytes long.
func FromBytes(b []byte) (Genome, error) {
	var g Genome
	if len(b) != Size {
		return g, fmt.Errorf("genome must be %d bytes, got %d", Size, len(b))
	}
	copy(g[:], b)
	return g, nil
}

// String returns the lowercase hex encoding of the genome.
func (g Genome) String() string {
	return hex.EncodeToString(g[:])
}

// MarshalText encodes the genome as lowercase hex.
func (g Genome) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a hex-encoded genome.
func (g *Genome) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode genome: %w", err)
	}
	decoded, err := FromBytes(raw)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}
