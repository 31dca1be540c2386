package batch

import (
	"context"
	"testing"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/digest"
	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
)

func preimage(vs ...uint64) []field.Element {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		out[i] = field.New(v)
	}
	return out
}

func TestHashMatchesSequentialHashFixed(t *testing.T) {
	preimages := [][]field.Element{
		preimage(1, 2),
		preimage(3, 4, 5),
		preimage(9),
	}

	h := New(len(preimages), 2)
	got, err := h.Hash(context.Background(), preimages)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	for i, p := range preimages {
		want := digest.HashFixed(p)
		if !got[i].Equal(want) {
			t.Errorf("batch result %d diverged from sequential HashFixed", i)
		}
	}
}

func TestHashPreservesOrder(t *testing.T) {
	preimages := make([][]field.Element, 20)
	for i := range preimages {
		preimages[i] = preimage(uint64(i))
	}

	h := New(len(preimages), 4)
	got, err := h.Hash(context.Background(), preimages)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	for i, p := range preimages {
		want := digest.HashFixed(p)
		if !got[i].Equal(want) {
			t.Errorf("result at index %d does not match its own preimage's hash", i)
		}
	}
}

func TestHashRejectsOversizedBatch(t *testing.T) {
	h := New(1, 1)
	_, err := h.Hash(context.Background(), [][]field.Element{preimage(1), preimage(2)})
	if err == nil {
		t.Fatal("expected error for a batch exceeding max batch size")
	}
}
