// Package goldilocks wires a hand-written Goldilocks field (Montgomery
// form, p = 2^64 − 2^32 + 1) into a dependency-free InnerSponge engine: the
// generic sponge algorithm driven by the Tip5, Poseidon, or Arion
// permutation, entirely without reaching for an external field library.
package goldilocks

import (
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/engine"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/permutation"
)

// Engine is a sponge over the Goldilocks field, parameterized by whichever
// permutation.Permutation backend it's constructed with.
type Engine struct {
	perm       permutation.Permutation
	state      []field.Element
	absorbPos  int
	squeezePos int
	pattern    *ioprotocol.IOPattern
	ioCount    int
}

// New builds an engine over the given permutation. Acc is struct{}: a plain
// field engine threads no side-channel context through Permute.
func New(perm permutation.Permutation) *Engine {
	return &Engine{
		perm:  perm,
		state: make([]field.Element, perm.Width()),
	}
}

// NewTip5 builds an engine over the Tip5 permutation (width 16, rate 10).
func NewTip5() *Engine {
	return New(permutation.Tip5{})
}

// NewPoseidon builds an engine over the Poseidon permutation with the given
// parameters (nil selects the default 128-bit-security, width-4 parameter
// set).
func NewPoseidon(params *permutation.PoseidonParameters) *Engine {
	return New(permutation.NewPoseidon(params))
}

// NewArion builds an engine over the Arion permutation (width 3, rate 2).
func NewArion() *Engine {
	return New(permutation.Arion{})
}

func (e *Engine) Rate() int { return e.perm.Rate() }

func (e *Engine) InitializeCapacity(tag ioprotocol.Tag, _ *struct{}) {
	capacity := e.perm.Width() - e.perm.Rate()
	for i := 0; i < capacity; i++ {
		switch i {
		case 0:
			e.state[e.perm.Rate()+i] = field.New(tag.Lo)
		case 1:
			e.state[e.perm.Rate()+i] = field.New(tag.Hi)
		default:
			e.state[e.perm.Rate()+i] = field.Zero
		}
	}
}

func (e *Engine) ReadRateElement(i int) field.Element { return e.state[i] }

func (e *Engine) AddRateElement(i int, v field.Element) { e.state[i] = v }

func (e *Engine) Permute(_ *struct{}) error {
	e.perm.Permute(e.state)
	return nil
}

func (e *Engine) AbsorbPos() int      { return e.absorbPos }
func (e *Engine) SetAbsorbPos(p int)  { e.absorbPos = p }
func (e *Engine) SqueezePos() int     { return e.squeezePos }
func (e *Engine) SetSqueezePos(p int) { e.squeezePos = p }

func (e *Engine) Pattern() *ioprotocol.IOPattern      { return e.pattern }
func (e *Engine) SetPattern(p *ioprotocol.IOPattern)  { e.pattern = p }

func (e *Engine) IncrementIOCount() int {
	c := e.ioCount
	e.ioCount++
	return c
}

func (e *Engine) Add(a, b field.Element) field.Element { return a.Add(b) }
func (e *Engine) Zero() field.Element                  { return field.Zero }

// Start, Absorb, Squeeze and Finish are ergonomic non-generic wrappers
// around the generic sponge algorithm in package engine, instantiated for
// this engine's Value (field.Element) and Acc (struct{}) types -- the same
// role the Rust original's blanket SpongeAPI impl plays for any
// InnerSpongeAPI.

func (e *Engine) Start(pattern ioprotocol.IOPattern, domainSeparator *uint32) {
	var acc struct{}
	engine.Start[field.Element, struct{}](e, pattern, domainSeparator, &acc)
}

func (e *Engine) Absorb(length uint32, elements []field.Element) error {
	var acc struct{}
	return engine.Absorb[field.Element, struct{}](e, length, elements, &acc)
}

func (e *Engine) Squeeze(length uint32) ([]field.Element, error) {
	var acc struct{}
	return engine.Squeeze[field.Element, struct{}](e, length, &acc)
}

func (e *Engine) Finish() error {
	var acc struct{}
	return engine.Finish[field.Element, struct{}](e, &acc)
}
