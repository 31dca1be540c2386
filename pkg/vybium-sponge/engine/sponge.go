// Package engine implements the engine-agnostic sponge algorithm: the
// start/absorb/squeeze/finish state machine that drives any permutation
// satisfying the InnerSponge capability interface. Concrete engines under
// engines/ supply the value domain, the permutation, and the threaded
// accumulator; this package supplies the algorithm once, generically, for
// all of them.
package engine

import "github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"

// InnerSponge is the capability contract a concrete permutation engine must
// satisfy to be driven by the generic sponge algorithm below. V is the
// engine's value domain (a field element, or a circuit wire); Acc is
// whatever side-channel context the engine's Permute needs threaded through
// (unit for a plain field engine, a constraint-system API for a circuit
// engine).
type InnerSponge[V any, Acc any] interface {
	// Rate is the number of V-sized slots absorbed/squeezed per permutation.
	Rate() int

	// InitializeCapacity folds tag into the engine's capacity slot(s),
	// discarding whatever capacity state preceded it.
	InitializeCapacity(tag ioprotocol.Tag, acc *Acc)

	// ReadRateElement reads rate slot i (0 <= i < Rate()); AddRateElement
	// stores v into that slot, replacing its previous value. Absorb passes
	// the sum of the slot's old value and the absorbed element.
	ReadRateElement(i int) V
	AddRateElement(i int, v V)

	// Permute runs one full application of the underlying permutation over
	// the engine's complete state (rate and capacity). It returns an error
	// only for engines whose permutation can itself fail, such as a
	// constraint-system engine encountering a synthesis error.
	Permute(acc *Acc) error

	AbsorbPos() int
	SetAbsorbPos(int)
	SqueezePos() int
	SetSqueezePos(int)

	Pattern() *ioprotocol.IOPattern
	SetPattern(*ioprotocol.IOPattern)

	// IncrementIOCount advances and returns the number of io operations
	// performed so far, prior to this increment.
	IncrementIOCount() int

	Add(a, b V) V
	Zero() V
}

func initializeState[V any, Acc any, E InnerSponge[V, Acc]](e E, tag ioprotocol.Tag, acc *Acc) {
	e.InitializeCapacity(tag, acc)
	for i := 0; i < e.Rate(); i++ {
		e.AddRateElement(i, e.Zero())
	}
}

// Start declares the IOPattern this sponge lifecycle will perform, folds it
// (together with an optional domain separator, defaulting to 0) into the
// engine's capacity, and resets both position cursors to the head of the
// rate.
func Start[V any, Acc any, E InnerSponge[V, Acc]](e E, pattern ioprotocol.IOPattern, domainSeparator *uint32, acc *Acc) {
	var ds uint32
	if domainSeparator != nil {
		ds = *domainSeparator
	}
	tag := pattern.Value(ds)

	e.SetPattern(&pattern)
	initializeState[V, Acc](e, tag, acc)

	e.SetAbsorbPos(0)
	e.SetSqueezePos(0)
}

// Absorb folds length elements into the rate, permuting whenever the rate
// fills up. length must equal len(elements); a mismatch panics with a plain
// message, and a shape that diverges from the IOPattern declared at Start
// panics with a PatternMismatchError -- both are programmer errors, not
// recoverable conditions.
func Absorb[V any, Acc any, E InnerSponge[V, Acc]](e E, length uint32, elements []V, acc *Acc) error {
	if int(length) != len(elements) {
		panic("engine: absorb length does not match number of elements supplied")
	}
	rate := e.Rate()

	for _, element := range elements {
		if e.AbsorbPos() == rate {
			if err := e.Permute(acc); err != nil {
				return err
			}
			e.SetAbsorbPos(0)
		}
		old := e.ReadRateElement(e.AbsorbPos())
		e.AddRateElement(e.AbsorbPos(), e.Add(old, element))
		e.SetAbsorbPos(e.AbsorbPos() + 1)
	}

	op := ioprotocol.SpongeOp{Kind: ioprotocol.Absorb, Count: length}
	oldCount := e.IncrementIOCount()
	declared, ok := e.Pattern().OpAt(oldCount)
	if !ok {
		panic(&PatternMismatchError{Index: oldCount, Actual: op})
	}
	if declared != op {
		panic(&PatternMismatchError{Index: oldCount, Declared: &declared, Actual: op})
	}

	e.SetSqueezePos(rate)
	return nil
}

// Squeeze reads length elements out of the rate, permuting whenever the
// rate runs dry. Panics under the same conditions as Absorb when the
// observed op diverges from the declared IOPattern.
func Squeeze[V any, Acc any, E InnerSponge[V, Acc]](e E, length uint32, acc *Acc) ([]V, error) {
	rate := e.Rate()
	out := make([]V, 0, length)

	for i := uint32(0); i < length; i++ {
		if e.SqueezePos() == rate {
			if err := e.Permute(acc); err != nil {
				return nil, err
			}
			e.SetSqueezePos(0)
			e.SetAbsorbPos(0)
		}
		out = append(out, e.ReadRateElement(e.SqueezePos()))
		e.SetSqueezePos(e.SqueezePos() + 1)
	}

	op := ioprotocol.SpongeOp{Kind: ioprotocol.Squeeze, Count: length}
	oldCount := e.IncrementIOCount()
	declared, ok := e.Pattern().OpAt(oldCount)
	if !ok {
		panic(&PatternMismatchError{Index: oldCount, Actual: op})
	}
	if declared != op {
		panic(&PatternMismatchError{Index: oldCount, Declared: &declared, Actual: op})
	}

	return out, nil
}

// Finish scrubs the sponge's state and checks that every op declared at
// Start was in fact performed. It returns ErrParameterUsageMismatch -- a
// recoverable error, not a panic -- if the pattern was under- or
// over-consumed.
func Finish[V any, Acc any, E InnerSponge[V, Acc]](e E, acc *Acc) error {
	initializeState[V, Acc](e, ioprotocol.Tag{}, acc)
	finalIOCount := e.IncrementIOCount()

	if finalIOCount == len(*e.Pattern()) {
		return nil
	}
	return ErrParameterUsageMismatch
}
