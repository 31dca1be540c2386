package digest

import (
	"fmt"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/engines/goldilocks"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"
)

// Domain-separates a fixed-length hash call (input known to fit within one
// rate) from a variable-length one, so that identical byte content hashed
// through the two call sites never collides.
const (
	domainSeparatorVariableLength uint32 = 0
	domainSeparatorFixedLength    uint32 = 1
)

// HashVarlen hashes an arbitrary-length sequence of field elements into a
// Digest, declaring its own IOPattern and driving the generic Sponge API
// over a Tip5 engine. Unlike ad hoc manual chunking, a single declared
// Absorb(len(input)) lets the sponge algorithm itself permute at every rate
// boundary.
func HashVarlen(input []field.Element) Digest {
	e := goldilocks.NewTip5()
	pattern := ioprotocol.IOPattern{
		{Kind: ioprotocol.Absorb, Count: uint32(len(input))},
		{Kind: ioprotocol.Squeeze, Count: DigestLen},
	}
	ds := domainSeparatorVariableLength
	e.Start(pattern, &ds)

	if err := e.Absorb(uint32(len(input)), input); err != nil {
		panic(fmt.Errorf("digest: HashVarlen: %w", err))
	}
	out, err := e.Squeeze(DigestLen)
	if err != nil {
		panic(fmt.Errorf("digest: HashVarlen: %w", err))
	}
	if err := e.Finish(); err != nil {
		panic(fmt.Errorf("digest: HashVarlen: %w", err))
	}

	var d Digest
	copy(d[:], out)
	return d
}

// HashFixed hashes an input known to fit within one rate (<= the engine's
// Rate()) into a Digest. Panics if input is longer than the rate -- callers
// choosing this entry point are asserting the length invariant themselves.
func HashFixed(input []field.Element) Digest {
	e := goldilocks.NewTip5()
	if len(input) > e.Rate() {
		panic(fmt.Sprintf("digest: HashFixed: input length %d exceeds rate %d", len(input), e.Rate()))
	}

	pattern := ioprotocol.IOPattern{
		{Kind: ioprotocol.Absorb, Count: uint32(len(input))},
		{Kind: ioprotocol.Squeeze, Count: DigestLen},
	}
	ds := domainSeparatorFixedLength
	e.Start(pattern, &ds)

	if err := e.Absorb(uint32(len(input)), input); err != nil {
		panic(fmt.Errorf("digest: HashFixed: %w", err))
	}
	out, err := e.Squeeze(DigestLen)
	if err != nil {
		panic(fmt.Errorf("digest: HashFixed: %w", err))
	}
	if err := e.Finish(); err != nil {
		panic(fmt.Errorf("digest: HashFixed: %w", err))
	}

	var d Digest
	copy(d[:], out)
	return d
}

// HashPair hashes two digests together, as used by Merkle tree internal
// nodes. The combined input is exactly 2*DigestLen elements, which fits
// within the Tip5 engine's rate of 10.
func HashPair(left, right Digest) Digest {
	input := make([]field.Element, 0, 2*DigestLen)
	input = append(input, left[:]...)
	input = append(input, right[:]...)
	return HashFixed(input)
}
