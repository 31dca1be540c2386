package engine

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/ioprotocol"
)

// ErrParameterUsageMismatch is returned by Finish when fewer or more
// operations were performed than the started IOPattern declared. This is a
// recoverable condition: the caller supplied a pattern and then drove the
// sponge inconsistently with it, and can retry with a corrected pattern.
var ErrParameterUsageMismatch = errors.New("engine: sponge finished without fully consuming its io pattern")

// PatternMismatchError is the panic payload raised when an absorb or
// squeeze call's shape does not match the next op in the IOPattern declared
// at Start. Unlike ErrParameterUsageMismatch, this indicates the caller's
// sequence of absorb/squeeze calls itself diverged from what it declared --
// a programming error, not a recoverable runtime condition.
type PatternMismatchError struct {
	Index    int
	Declared *ioprotocol.SpongeOp
	Actual   ioprotocol.SpongeOp
}

func (e *PatternMismatchError) Error() string {
	if e.Declared == nil {
		return fmt.Sprintf("engine: op %d (%+v) has no corresponding entry in the declared io pattern", e.Index, e.Actual)
	}
	return fmt.Sprintf("engine: op %d (%+v) does not match declared pattern entry %+v", e.Index, e.Actual, *e.Declared)
}
