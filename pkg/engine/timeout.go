package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/pcgrid/pkg/function"
)

// EvalTimeout is the default hard limit for a single compilation.
const EvalTimeout = 5 * time.Second

// compileResult passes compilation output through channels.
type compileResult struct {
	root   function.Function
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if compilation exceeds timeout. It uses a generation counter to discard
// stale results from previous compilations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan compileResult,
	gen uint64,
	timeout time.Duration,
	mu *sync.Mutex,
	currentGen *uint64,
) (function.Function, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("compilation superseded by newer request")
		}
		return res.root, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("compilation timed out after %s", timeout)
	}
}
