// Package bn254 adapts gnark-crypto's bn254 scalar field into an InnerSponge
// engine driven by a Poseidon2 permutation: the "vanilla" field engine a
// prover runs natively, outside any circuit, to produce the same digests its
// in-circuit counterpart (package circuit) must reproduce under constraints.
package bn254

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/engine"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"
)

// Engine is a sponge over bn254's scalar field, permuted by Poseidon2 at
// width 3 (rate 2, capacity 1).
type Engine struct {
	state      [Width]fr.Element
	absorbPos  int
	squeezePos int
	pattern    *ioprotocol.IOPattern
	ioCount    int
}

// New builds an engine with a zeroed state.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) Rate() int { return Rate }

func (e *Engine) InitializeCapacity(tag ioprotocol.Tag, _ *struct{}) {
	var lo fr.Element
	lo.SetUint64(tag.Lo)
	e.state[Rate] = lo
}

func (e *Engine) ReadRateElement(i int) fr.Element { return e.state[i] }

func (e *Engine) AddRateElement(i int, v fr.Element) { e.state[i] = v }

func (e *Engine) Permute(_ *struct{}) error {
	permute(&e.state)
	return nil
}

func (e *Engine) AbsorbPos() int      { return e.absorbPos }
func (e *Engine) SetAbsorbPos(p int)  { e.absorbPos = p }
func (e *Engine) SqueezePos() int     { return e.squeezePos }
func (e *Engine) SetSqueezePos(p int) { e.squeezePos = p }

func (e *Engine) Pattern() *ioprotocol.IOPattern     { return e.pattern }
func (e *Engine) SetPattern(p *ioprotocol.IOPattern) { e.pattern = p }

func (e *Engine) IncrementIOCount() int {
	c := e.ioCount
	e.ioCount++
	return c
}

func (e *Engine) Add(a, b fr.Element) fr.Element {
	var out fr.Element
	out.Add(&a, &b)
	return out
}

func (e *Engine) Zero() fr.Element { return fr.Element{} }

// Start, Absorb, Squeeze and Finish instantiate the generic sponge algorithm
// for this engine's (fr.Element, struct{}) type pair.

func (e *Engine) Start(pattern ioprotocol.IOPattern, domainSeparator *uint32) {
	var acc struct{}
	engine.Start[fr.Element, struct{}](e, pattern, domainSeparator, &acc)
}

func (e *Engine) Absorb(length uint32, elements []fr.Element) error {
	var acc struct{}
	return engine.Absorb[fr.Element, struct{}](e, length, elements, &acc)
}

func (e *Engine) Squeeze(length uint32) ([]fr.Element, error) {
	var acc struct{}
	return engine.Squeeze[fr.Element, struct{}](e, length, &acc)
}

func (e *Engine) Finish() error {
	var acc struct{}
	return engine.Finish[fr.Element, struct{}](e, &acc)
}

// Hash hashes a fixed pair of scalars through one permutation, the shape a
// Merkle two-to-one compression needs. Panics if the pattern bookkeeping
// ever disagrees with this fixed single-absorb/single-squeeze shape, which
// would indicate a bug in the generic sponge algorithm itself rather than
// misuse by a caller.
func Hash(left, right fr.Element) fr.Element {
	e := New()
	pattern := ioprotocol.IOPattern{
		{Kind: ioprotocol.Absorb, Count: 2},
		{Kind: ioprotocol.Squeeze, Count: 1},
	}
	e.Start(pattern, nil)
	if err := e.Absorb(2, []fr.Element{left, right}); err != nil {
		panic(err)
	}
	out, err := e.Squeeze(1)
	if err != nil {
		panic(err)
	}
	if err := e.Finish(); err != nil {
		panic(err)
	}
	return out[0]
}
