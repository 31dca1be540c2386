package permutation

import (
	"testing"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
)

func TestTip5PermuteIsDeterministic(t *testing.T) {
	perm := Tip5{}
	a := make([]field.Element, perm.Width())
	b := make([]field.Element, perm.Width())
	for i := range a {
		a[i] = field.New(uint64(i + 1))
		b[i] = field.New(uint64(i + 1))
	}

	perm.Permute(a)
	perm.Permute(b)

	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("tip5 permutation not deterministic at index %d", i)
		}
	}
}

func TestTip5PermuteChangesState(t *testing.T) {
	perm := Tip5{}
	state := make([]field.Element, perm.Width())
	for i := range state {
		state[i] = field.New(uint64(i))
	}
	original := make([]field.Element, len(state))
	copy(original, state)

	perm.Permute(state)

	same := true
	for i := range state {
		if !state[i].Equal(original[i]) {
			same = false
			break
		}
	}
	if same {
		t.Error("tip5 permutation left the all-but-zero state unchanged")
	}
}

func TestTip5PermuteOnZeroStateIsNonTrivial(t *testing.T) {
	perm := Tip5{}
	state := make([]field.Element, perm.Width())
	perm.Permute(state)

	allZero := true
	for _, e := range state {
		if !e.IsZero() {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("tip5 permutation of the zero state produced the zero state")
	}
}

func TestPoseidonPermuteIsDeterministic(t *testing.T) {
	perm := NewPoseidon(nil)
	a := make([]field.Element, perm.Width())
	b := make([]field.Element, perm.Width())
	for i := range a {
		a[i] = field.New(uint64(i + 7))
		b[i] = field.New(uint64(i + 7))
	}

	perm.Permute(a)
	perm.Permute(b)

	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("poseidon permutation not deterministic at index %d", i)
		}
	}
}

func TestPoseidonPermuteChangesState(t *testing.T) {
	perm := NewPoseidon(nil)
	state := make([]field.Element, perm.Width())
	for i := range state {
		state[i] = field.New(uint64(i + 1))
	}
	original := make([]field.Element, len(state))
	copy(original, state)

	perm.Permute(state)

	same := true
	for i := range state {
		if !state[i].Equal(original[i]) {
			same = false
			break
		}
	}
	if same {
		t.Error("poseidon permutation left the state unchanged")
	}
}

func TestPoseidonDefaultParametersShape(t *testing.T) {
	params := DefaultPoseidonParameters()
	if params.Width-params.Rate != 1 {
		t.Errorf("default poseidon capacity = %d, want 1", params.Width-params.Rate)
	}
	perm := NewPoseidon(params)
	if perm.Width() != params.Width || perm.Rate() != params.Rate {
		t.Errorf("permutation shape %d/%d does not match params %d/%d", perm.Width(), perm.Rate(), params.Width, params.Rate)
	}
}

func TestPoseidonPanicsOnWrongStateLength(t *testing.T) {
	perm := NewPoseidon(nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic permuting a state of the wrong length")
		}
	}()
	perm.Permute(make([]field.Element, perm.Width()+1))
}

func TestArionPermuteIsDeterministic(t *testing.T) {
	perm := Arion{}
	a := make([]field.Element, perm.Width())
	b := make([]field.Element, perm.Width())
	for i := range a {
		a[i] = field.New(uint64(i + 3))
		b[i] = field.New(uint64(i + 3))
	}

	perm.Permute(a)
	perm.Permute(b)

	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("arion permutation not deterministic at index %d", i)
		}
	}
}

func TestArionPermuteChangesState(t *testing.T) {
	perm := Arion{}
	state := make([]field.Element, perm.Width())
	for i := range state {
		state[i] = field.New(uint64(i + 1))
	}
	original := make([]field.Element, len(state))
	copy(original, state)

	perm.Permute(state)

	same := true
	for i := range state {
		if !state[i].Equal(original[i]) {
			same = false
			break
		}
	}
	if same {
		t.Error("arion permutation left the state unchanged")
	}
}

func TestArionPanicsOnWrongStateLength(t *testing.T) {
	perm := Arion{}
	defer func() {
		if recover() == nil {
			t.Error("expected panic permuting a state of the wrong length")
		}
	}()
	perm.Permute(make([]field.Element, perm.Width()+1))
}

func TestTip5PanicsOnWrongStateLength(t *testing.T) {
	perm := Tip5{}
	defer func() {
		if recover() == nil {
			t.Error("expected panic permuting a state of the wrong length")
		}
	}()
	perm.Permute(make([]field.Element, perm.Width()-1))
}
