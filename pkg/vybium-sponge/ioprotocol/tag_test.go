package ioprotocol

import "testing"

func TestTagValues(t *testing.T) {
	cases := []struct {
		name            string
		pattern         IOPattern
		domainSeparator uint32
		want            Tag
	}{
		{
			name:            "empty pattern, zero separator",
			pattern:         IOPattern{},
			domainSeparator: 0,
			want:            Tag{Hi: 0x0, Lo: 0x0},
		},
		{
			name:            "empty pattern, non-zero separator",
			pattern:         IOPattern{},
			domainSeparator: 123,
			want:            Tag{Hi: 0xffffffffffffffff, Lo: 0xffffffffffffb39b},
		},
		{
			name: "single absorb-squeeze pair",
			pattern: IOPattern{
				{Kind: Absorb, Count: 2},
				{Kind: Squeeze, Count: 2},
			},
			domainSeparator: 0,
			want:            Tag{Hi: 0xffffffffffffffff, Lo: 0xffffffb08000c444},
		},
		{
			name: "same pattern, non-zero separator differs",
			pattern: IOPattern{
				{Kind: Absorb, Count: 2},
				{Kind: Squeeze, Count: 2},
			},
			domainSeparator: 1,
			want:            Tag{Hi: 0xffffffffffffffff, Lo: 0xffffffb07fc36e65},
		},
		{
			name: "coalesced absorbs match a single absorb of the sum",
			pattern: IOPattern{
				{Kind: Absorb, Count: 1},
				{Kind: Absorb, Count: 1},
				{Kind: Squeeze, Count: 2},
			},
			domainSeparator: 0,
			want:            Tag{Hi: 0xffffffffffffffff, Lo: 0xffffffb08000c444},
		},
		{
			name: "coalesced absorbs and squeezes both match",
			pattern: IOPattern{
				{Kind: Absorb, Count: 1},
				{Kind: Absorb, Count: 1},
				{Kind: Squeeze, Count: 1},
				{Kind: Squeeze, Count: 1},
			},
			domainSeparator: 0,
			want:            Tag{Hi: 0xffffffffffffffff, Lo: 0xffffffb08000c444},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.pattern.Value(c.domainSeparator)
			if got != c.want {
				t.Errorf("Value(%d) = %+v, want %+v", c.domainSeparator, got, c.want)
			}
		})
	}
}

func TestSpongeOpValueEncoding(t *testing.T) {
	absorb := SpongeOp{Kind: Absorb, Count: 5}
	squeeze := SpongeOp{Kind: Squeeze, Count: 5}

	if absorb.Value() != 5+sepBit {
		t.Errorf("absorb encoding = %d, want %d", absorb.Value(), 5+sepBit)
	}
	if squeeze.Value() != 5 {
		t.Errorf("squeeze encoding = %d, want 5", squeeze.Value())
	}
}

func TestSpongeOpValuePanicsOnOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on 31-bit count overflow")
		}
	}()
	SpongeOp{Kind: Absorb, Count: 1 << 31}.Value()
}

func TestSpongeOpCombinePanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic combining mismatched op kinds")
		}
	}()
	SpongeOp{Kind: Absorb, Count: 1}.Combine(SpongeOp{Kind: Squeeze, Count: 1})
}

func TestIOPatternOpAt(t *testing.T) {
	p := IOPattern{{Kind: Absorb, Count: 1}, {Kind: Squeeze, Count: 1}}

	if op, ok := p.OpAt(0); !ok || op != p[0] {
		t.Errorf("OpAt(0) = %+v, %v; want %+v, true", op, ok, p[0])
	}
	if _, ok := p.OpAt(2); ok {
		t.Error("OpAt(2) should report false for an out-of-range pattern")
	}
	if _, ok := p.OpAt(-1); ok {
		t.Error("OpAt(-1) should report false")
	}
}
