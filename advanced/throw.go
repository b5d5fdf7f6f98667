package advanced

import "github.com/pkg/errors"

// Invariant violations deep inside the splitting code should never happen for
// valid input, and threading them through every helper would add a ton of
// noise. Instead, we use panics, and the public API recovers to convert to an
// error.

type DecomposeError struct {
	error
}

// Panic with a DecomposeError.
func fatalf(format string, args ...interface{}) {
	panic(DecomposeError{errors.Errorf(format, args...)})
}

// Panic with a DecomposeError wrapping err.
func throw(err error) {
	panic(DecomposeError{err})
}

func HandleDecomposePanicRecover(r interface{}) error {
	if r != nil {
		if decomposeError, ok := r.(DecomposeError); ok {
			return decomposeError.error
		}
		panic(r)
	}
	return nil
}
