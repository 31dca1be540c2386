package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/engines/bn254"
)

// roundConstant and mdsEntry convert the vanilla engine's generated
// constants to *big.Int once, lazily, so the circuit engine adds the same
// Poseidon2 instance under constraints that bn254.Hash computes natively.
var (
	roundConstantCache [bn254.TotalRounds][bn254.Width]*big.Int
	mdsEntryCache      [bn254.Width][bn254.Width]*big.Int
)

func roundConstant(round, pos int) *big.Int {
	if roundConstantCache[round][pos] == nil {
		e := bn254.RoundConstant(round, pos)
		roundConstantCache[round][pos] = new(big.Int)
		e.BigInt(roundConstantCache[round][pos])
	}
	return roundConstantCache[round][pos]
}

func mdsEntry(i, j int) *big.Int {
	if mdsEntryCache[i][j] == nil {
		e := bn254.MDSEntry(i, j)
		mdsEntryCache[i][j] = new(big.Int)
		e.BigInt(mdsEntryCache[i][j])
	}
	return mdsEntryCache[i][j]
}

// permute runs the Poseidon2 round schedule over a width-3 state of circuit
// wires, emitting the same sequence of additions, x^5 s-boxes and MDS
// multiplications as bn254.permute, expressed as constraints against api.
func permute(api frontend.API, state *[bn254.Width]frontend.Variable) {
	half := bn254.FullRounds / 2
	round := 0
	for ; round < half; round++ {
		fullRound(api, state, round)
	}
	for ; round < half+bn254.PartialRounds; round++ {
		partialRound(api, state, round)
	}
	for ; round < bn254.TotalRounds; round++ {
		fullRound(api, state, round)
	}
}

func fullRound(api frontend.API, state *[bn254.Width]frontend.Variable, round int) {
	for i := 0; i < bn254.Width; i++ {
		state[i] = api.Add(state[i], roundConstant(round, i))
	}
	for i := 0; i < bn254.Width; i++ {
		state[i] = sbox(api, state[i])
	}
	applyMDS(api, state)
}

func partialRound(api frontend.API, state *[bn254.Width]frontend.Variable, round int) {
	state[0] = api.Add(state[0], roundConstant(round, 0))
	state[0] = sbox(api, state[0])
	applyMDS(api, state)
}

func sbox(api frontend.API, x frontend.Variable) frontend.Variable {
	x2 := api.Mul(x, x)
	x4 := api.Mul(x2, x2)
	return api.Mul(x4, x)
}

func applyMDS(api frontend.API, state *[bn254.Width]frontend.Variable) {
	var next [bn254.Width]frontend.Variable
	for i := 0; i < bn254.Width; i++ {
		terms := make([]frontend.Variable, bn254.Width)
		for j := 0; j < bn254.Width; j++ {
			terms[j] = api.Mul(mdsEntry(i, j), state[j])
		}
		next[i] = api.Add(terms[0], terms[1], terms[2:]...)
	}
	*state = next
}
