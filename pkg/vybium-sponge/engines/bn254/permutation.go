package bn254

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Width, Rate and Capacity fix this engine's state shape: a t=3 Poseidon2
// instance with rate 2 and capacity 1, the sponge shape used for hashing
// pairs of scalars (Merkle nodes, two-to-one compression) over bn254's
// scalar field.
const (
	Width         = 3
	Rate          = 2
	Capacity      = Width - Rate
	sboxDegree    = 5
	FullRounds    = 8
	PartialRounds = 56
	TotalRounds   = FullRounds + PartialRounds
)

var (
	roundConstants [TotalRounds][Width]fr.Element
	mdsMatrix      [Width][Width]fr.Element
)

// RoundConstant exposes a single generated round constant. The circuit
// engine reuses these rather than generating its own copy, so the in-circuit
// permutation and this vanilla one are provably the same Poseidon2 instance.
func RoundConstant(round, pos int) fr.Element { return roundConstants[round][pos] }

// MDSEntry exposes a single entry of the generated MDS matrix.
func MDSEntry(i, j int) fr.Element { return mdsMatrix[i][j] }

func init() {
	generateRoundConstants()
	generateMDSMatrix()
}

// permute runs the full Poseidon2 round schedule over state in place: F/2
// full rounds, then the partial rounds, then the remaining F/2 full rounds.
func permute(state *[Width]fr.Element) {
	half := FullRounds / 2
	round := 0
	for ; round < half; round++ {
		fullRound(state, round)
	}
	for ; round < half+PartialRounds; round++ {
		partialRound(state, round)
	}
	for ; round < TotalRounds; round++ {
		fullRound(state, round)
	}
}

func fullRound(state *[Width]fr.Element, round int) {
	for i := 0; i < Width; i++ {
		state[i].Add(&state[i], &roundConstants[round][i])
	}
	for i := 0; i < Width; i++ {
		state[i] = sbox(&state[i])
	}
	applyMDS(state)
}

func partialRound(state *[Width]fr.Element, round int) {
	state[0].Add(&state[0], &roundConstants[round][0])
	state[0] = sbox(&state[0])
	applyMDS(state)
}

// sbox computes x^5 as x * (x^2)^2.
func sbox(x *fr.Element) fr.Element {
	var x2, x4, out fr.Element
	x2.Square(x)
	x4.Square(&x2)
	out.Mul(&x4, x)
	return out
}

func applyMDS(state *[Width]fr.Element) {
	var next [Width]fr.Element
	for i := 0; i < Width; i++ {
		for j := 0; j < Width; j++ {
			var term fr.Element
			term.Mul(&mdsMatrix[i][j], &state[j])
			next[i].Add(&next[i], &term)
		}
	}
	*state = next
}

// generateRoundConstants derives every round constant from a fixed domain
// string by hashing (round, position) with SHA-256 and reducing the digest
// into the scalar field. Partial rounds only perturb position 0; the
// remaining positions stay at zero so the round loop can add them
// unconditionally.
func generateRoundConstants() {
	seed := []byte("vybium-sponge/bn254/poseidon2/t3/round-constants")
	half := FullRounds / 2
	for round := 0; round < TotalRounds; round++ {
		if round < half || round >= half+PartialRounds {
			for pos := 0; pos < Width; pos++ {
				roundConstants[round][pos] = constantFromSeed(seed, round, pos)
			}
			continue
		}
		roundConstants[round][0] = constantFromSeed(seed, round, 0)
	}
}

// generateMDSMatrix derives a square matrix from a separate domain string:
// entry (i, j) is SHA-256(seed || i || j) reduced into the field, plus one.
// Collision with the zero matrix (or a non-invertible one) is astronomically
// unlikely for SHA-256-derived entries over a 254-bit field; the matrix is
// not checked to be MDS or invertible.
func generateMDSMatrix() {
	seed := []byte("vybium-sponge/bn254/poseidon2/t3/mds-matrix")
	one := fr.One()
	for i := 0; i < Width; i++ {
		for j := 0; j < Width; j++ {
			entry := constantFromSeed(seed, i, j)
			entry.Add(&entry, &one)
			mdsMatrix[i][j] = entry
		}
	}
}

func constantFromSeed(seed []byte, a, b int) fr.Element {
	input := make([]byte, len(seed)+8)
	copy(input, seed)
	binary.BigEndian.PutUint32(input[len(seed):], uint32(a))
	binary.BigEndian.PutUint32(input[len(seed)+4:], uint32(b))
	digest := sha256.Sum256(input)

	var out fr.Element
	out.SetBytes(digest[:])
	return out
}
