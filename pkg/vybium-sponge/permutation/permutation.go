// Package permutation provides the fixed-width algebraic permutations that
// back the Goldilocks sponge engine: Tip5, Poseidon and Arion. All three
// satisfy the same small interface, so a sponge built on one can be swapped
// for another without touching the sponge algorithm itself.
package permutation

import "github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"

// Permutation is a fixed-width permutation over the Goldilocks field.
// Permute mutates state in place; len(state) must equal Width().
type Permutation interface {
	Width() int
	Rate() int
	Permute(state []field.Element)
}
