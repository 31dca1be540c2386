package goldilocks

import (
	"errors"
	"testing"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/engine"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"
)

func absorbAndSqueeze(t *testing.T, e *Engine, input []field.Element, squeezeLen uint32) []field.Element {
	t.Helper()
	pattern := ioprotocol.IOPattern{
		{Kind: ioprotocol.Absorb, Count: uint32(len(input))},
		{Kind: ioprotocol.Squeeze, Count: squeezeLen},
	}
	e.Start(pattern, nil)
	if err := e.Absorb(uint32(len(input)), input); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	out, err := e.Squeeze(squeezeLen)
	if err != nil {
		t.Fatalf("Squeeze: %v", err)
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return out
}

func TestTip5EngineIsDeterministic(t *testing.T) {
	input := []field.Element{field.New(1), field.New(2), field.New(3)}

	out1 := absorbAndSqueeze(t, NewTip5(), input, 5)
	out2 := absorbAndSqueeze(t, NewTip5(), input, 5)

	for i := range out1 {
		if !out1[i].Equal(out2[i]) {
			t.Fatalf("tip5 engine non-deterministic at output %d", i)
		}
	}
}

func TestPoseidonEngineIsDeterministic(t *testing.T) {
	input := []field.Element{field.New(10), field.New(20)}

	out1 := absorbAndSqueeze(t, NewPoseidon(nil), input, 2)
	out2 := absorbAndSqueeze(t, NewPoseidon(nil), input, 2)

	for i := range out1 {
		if !out1[i].Equal(out2[i]) {
			t.Fatalf("poseidon engine non-deterministic at output %d", i)
		}
	}
}

func TestArionEngineIsDeterministic(t *testing.T) {
	input := []field.Element{field.New(5), field.New(6)}

	out1 := absorbAndSqueeze(t, NewArion(), input, 1)
	out2 := absorbAndSqueeze(t, NewArion(), input, 1)

	if !out1[0].Equal(out2[0]) {
		t.Fatal("arion engine non-deterministic")
	}
}

func TestEngineDifferentTagsProduceDifferentOutputs(t *testing.T) {
	input := []field.Element{field.New(1), field.New(2)}

	e1 := NewTip5()
	p1 := ioprotocol.IOPattern{{Kind: ioprotocol.Absorb, Count: 2}, {Kind: ioprotocol.Squeeze, Count: 1}}
	e1.Start(p1, nil)
	_ = e1.Absorb(2, input)
	out1, _ := e1.Squeeze(1)

	e2 := NewTip5()
	sep := uint32(7)
	e2.Start(p1, &sep)
	_ = e2.Absorb(2, input)
	out2, _ := e2.Squeeze(1)

	if out1[0].Equal(out2[0]) {
		t.Error("different domain separators produced identical output")
	}
}

func TestEngineAbsorbWrongCountPanics(t *testing.T) {
	e := NewTip5()
	pattern := ioprotocol.IOPattern{{Kind: ioprotocol.Absorb, Count: 2}}
	e.Start(pattern, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for pattern-diverging absorb")
		}
		if _, ok := r.(*engine.PatternMismatchError); !ok {
			t.Errorf("expected *engine.PatternMismatchError, got %T", r)
		}
	}()
	_ = e.Absorb(1, []field.Element{field.New(1)})
}

func TestEngineFinishReportsUnderConsumedPattern(t *testing.T) {
	e := NewTip5()
	pattern := ioprotocol.IOPattern{{Kind: ioprotocol.Absorb, Count: 1}, {Kind: ioprotocol.Squeeze, Count: 1}}
	e.Start(pattern, nil)
	_ = e.Absorb(1, []field.Element{field.New(42)})

	err := e.Finish()
	if !errors.Is(err, engine.ErrParameterUsageMismatch) {
		t.Errorf("Finish error = %v, want ErrParameterUsageMismatch", err)
	}
}

func TestEngineRateBoundaryTriggersPermutation(t *testing.T) {
	e := NewPoseidon(nil) // rate 3
	rate := e.Rate()
	input := make([]field.Element, rate+1)
	for i := range input {
		input[i] = field.New(uint64(i + 1))
	}
	pattern := ioprotocol.IOPattern{
		{Kind: ioprotocol.Absorb, Count: uint32(len(input))},
		{Kind: ioprotocol.Squeeze, Count: 1},
	}
	e.Start(pattern, nil)
	if err := e.Absorb(uint32(len(input)), input); err != nil {
		t.Fatalf("Absorb: %v", err)
	}
	if e.AbsorbPos() != 1 {
		t.Errorf("absorbPos after %d elements over rate %d = %d, want 1", len(input), rate, e.AbsorbPos())
	}
}
