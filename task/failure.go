package task

import (
	"github.com/kbukum/speechkit/errors"
)

// wrapFailure maps any provider error onto the task's single failure code.
// The provider's own code is kept in the cause_code detail.
func wrapFailure(code errors.ErrorCode, task string, err error) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	return errors.TaskFailed(code, task, appErr)
}
