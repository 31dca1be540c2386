package engine

import "github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"

// Mode names the shape of a declared IOPattern. It is informational only: the generic algorithm in this
// package never branches on Mode, only on the declared IOPattern's shape.
type Mode int

const (
	// Simplex patterns finish all absorption before their first squeeze.
	Simplex Mode = iota
	// Duplex patterns have at least one absorb that follows a squeeze.
	Duplex
)

func (m Mode) String() string {
	switch m {
	case Simplex:
		return "simplex"
	case Duplex:
		return "duplex"
	default:
		return "unknown"
	}
}

// ClassifyMode inspects a declared IOPattern and reports whether it ever
// squeezes before a later absorb (Duplex) or only ever squeezes after all
// absorption is done (Simplex). This is diagnostic: callers don't need it to
// drive the sponge correctly, only to describe a pattern's shape.
func ClassifyMode(pattern ioprotocol.IOPattern) Mode {
	seenSqueeze := false
	for _, op := range pattern {
		if op.Kind == ioprotocol.Squeeze {
			seenSqueeze = true
			continue
		}
		if seenSqueeze {
			return Duplex
		}
	}
	return Simplex
}
