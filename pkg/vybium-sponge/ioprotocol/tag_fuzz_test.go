package ioprotocol

import "testing"

// FuzzCoalescence checks that splitting a single absorb/squeeze op into two
// adjacent ops of the same kind never changes the resulting Tag, for any
// split point and domain separator.
func FuzzCoalescence(f *testing.F) {
	f.Add(uint32(4), uint32(1), uint32(0))
	f.Add(uint32(10), uint32(3), uint32(42))
	f.Add(uint32(1), uint32(0), uint32(7))

	f.Fuzz(func(t *testing.T, total, split, domainSeparator uint32) {
		total &= (1 << 30) - 1
		if split > total {
			split = total
		}

		whole := IOPattern{{Kind: Absorb, Count: total}}
		parts := IOPattern{
			{Kind: Absorb, Count: split},
			{Kind: Absorb, Count: total - split},
		}

		if whole.Value(domainSeparator) != parts.Value(domainSeparator) {
			t.Errorf("coalescence mismatch: total=%d split=%d sep=%d", total, split, domainSeparator)
		}
	})
}
