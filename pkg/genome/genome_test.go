package genome_test

import (
	"encoding/json"
	"testing"

	"creaturecore/pkg/genome"
)

func genomeWithFirstByte(b byte) genome.Genome {
	var g genome.Genome
	g[0] = b
	return g
}

func TestGenderOfFirstByteParity(t *testing.T) {
	cases := []struct {
		name  string
		first byte
		want  genome.Gender
	}{
		{name: "even byte is male", first: 0x02, want: genome.Male},
		{name: "odd byte is female", first: 0x03, want: genome.Female},
		{name: "zero is male", first: 0x00, want: genome.Male},
		{name: "max odd is female", first: 0xFF, want: genome.Female},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := genome.GenderOf(genomeWithFirstByte(tc.first)); got != tc.want {
				t.Fatalf("GenderOf(first=%#x) = %q, want %q", tc.first, got, tc.want)
			}
		})
	}
}

func TestCombineByte(t *testing.T) {
	cases := []struct {
		name     string
		p1, p2   byte
		selector byte
		want     byte
	}{
		{name: "mixed selector", p1: 0b1010_1010, p2: 0b0101_0101, selector: 0b1111_0000, want: 0b0101_1010},
		{name: "all zero selector keeps first parent", p1: 0xAB, p2: 0xCD, selector: 0x00, want: 0xAB},
		{name: "all one selector keeps second parent", p1: 0xAB, p2: 0xCD, selector: 0xFF, want: 0xCD},
		{name: "equal parents ignore selector", p1: 0x5A, p2: 0x5A, selector: 0x3C, want: 0x5A},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := genome.CombineByte(tc.p1, tc.p2, tc.selector); got != tc.want {
				t.Fatalf("CombineByte(%#08b, %#08b, %#08b) = %#08b, want %#08b", tc.p1, tc.p2, tc.selector, got, tc.want)
			}
		})
	}
}

func TestCombineDrawsEveryBitFromAParent(t *testing.T) {
	var p1, p2, selector genome.Genome
	for i := range p1 {
		p1[i] = byte(i * 7)
		p2[i] = byte(255 - i)
		selector[i] = byte(i * 31)
	}
	child := genome.Combine(p1, p2, selector)
	for i := range child {
		for bit := 0; bit < 8; bit++ {
			mask := byte(1) << bit
			want := p1[i] & mask
			if selector[i]&mask != 0 {
				want = p2[i] & mask
			}
			if child[i]&mask != want {
				t.Fatalf("byte %d bit %d: child drew from the wrong parent", i, bit)
			}
		}
	}
}

func TestFromBytesLengthCheck(t *testing.T) {
	if _, err := genome.FromBytes(make([]byte, genome.Size-1)); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := genome.FromBytes(make([]byte, genome.Size+1)); err == nil {
		t.Fatal("expected error for long input")
	}
	raw := make([]byte, genome.Size)
	for i := range raw {
		raw[i] = byte(i)
	}
	g, err := genome.FromBytes(raw)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if g[15] != 15 {
		t.Fatalf("unexpected genome content: %v", g)
	}
}

func TestGenomeHexEncoding(t *testing.T) {
	g, err := genome.FromBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	encoded, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"deadbeef0405060708090a0b0c0d0e0f"` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	var decoded genome.Genome
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != g {
		t.Fatalf("roundtrip mismatch: %s != %s", decoded, g)
	}
	if err := decoded.UnmarshalText([]byte("zz")); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}
