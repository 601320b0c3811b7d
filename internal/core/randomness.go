package core

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"creaturecore/pkg/genome"
	"creaturecore/pkg/registry"

	"golang.org/x/crypto/blake2b"
)

// SeedSource is the randomness collaborator. The core requires only that the
// returned bytes are deterministic for a given host state and uniformly
// distributed enough that derived genomes are unpredictable to callers.
type SeedSource interface {
	RandomSeed() []byte
}

// CryptoSeedSource draws seeds from the operating system entropy pool.
type CryptoSeedSource struct{}

// NewCryptoSeedSource returns the production seed source.
func NewCryptoSeedSource() CryptoSeedSource { return CryptoSeedSource{} }

// RandomSeed returns 32 bytes of OS entropy.
func (CryptoSeedSource) RandomSeed() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("read entropy: %w", err))
	}
	return buf
}

// FixedSeedSource returns the same seed on every call. Replicated hosts use
// it to feed block-level randomness into the engine; tests use it to make
// transitions reproducible.
type FixedSeedSource struct {
	seed []byte
}

// NewFixedSeedSource copies seed into a source that always returns it.
func NewFixedSeedSource(seed []byte) *FixedSeedSource {
	cp := make([]byte, len(seed))
	copy(cp, seed)
	return &FixedSeedSource{seed: cp}
}

// RandomSeed returns a copy of the configured seed.
func (s *FixedSeedSource) RandomSeed() []byte {
	cp := make([]byte, len(s.seed))
	copy(cp, s.seed)
	return cp
}

// genomeDeriver hashes (seed, owner, nonce) into fresh genetic material. The
// nonce distinguishes calls made under the same seed, so two derivations in
// one batch never collide.
type genomeDeriver struct {
	source SeedSource
	mu     sync.Mutex
	nonce  uint64
}

func newGenomeDeriver(source SeedSource) *genomeDeriver {
	return &genomeDeriver{source: source}
}

// derive produces a 16-byte genome as the BLAKE2b-128 digest of the seed,
// the owner identity, and a per-call counter.
func (d *genomeDeriver) derive(owner registry.Owner) genome.Genome {
	d.mu.Lock()
	nonce := d.nonce
	d.nonce++
	d.mu.Unlock()

	h, err := blake2b.New(genome.Size, nil)
	if err != nil {
		panic(fmt.Errorf("init blake2b: %w", err))
	}
	_, _ = h.Write(d.source.RandomSeed())
	_, _ = h.Write([]byte(owner))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	_, _ = h.Write(buf[:])

	var g genome.Genome
	copy(g[:], h.Sum(nil))
	return g
}
