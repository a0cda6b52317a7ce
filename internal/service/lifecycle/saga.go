package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/wyomingwade/slapaman/internal/logger"
)

// step is one action of a saga with its compensation. undo may be nil.
type step struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// runSaga runs steps in order. On failure the completed steps are undone in
// reverse order. The step error is returned as is when every compensation
// succeeded and wrapped in ErrDiverged otherwise.
func runSaga(ctx context.Context, steps ...step) error {
	for i, st := range steps {
		err := st.do(ctx)
		if err == nil {
			continue
		}

		err = fmt.Errorf("%s: %w", st.name, err)

		var undoErr error

		for j := i - 1; j >= 0; j-- {
			if steps[j].undo == nil {
				continue
			}

			logger.DebugKV(ctx, "Compensating step", "step", steps[j].name)

			if uerr := steps[j].undo(ctx); uerr != nil {
				undoErr = multierr.Append(undoErr, fmt.Errorf("undo %s: %w", steps[j].name, uerr))
			}
		}

		if undoErr != nil {
			logger.ErrorKV(ctx, "Rollback failed", "step", st.name, "error", undoErr)

			return fmt.Errorf("%w: %w", ErrDiverged, multierr.Combine(err, undoErr))
		}

		return err
	}

	return nil
}
