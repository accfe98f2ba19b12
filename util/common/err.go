package common

import (
	"errors"
	"fmt"

	"github.com/voxvault/voxvault/logger"
)

// Error taxonomy shared by the stores. Callers test with errors.Is; the
// stores wrap these with context via WrapError.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrNotFound          = errors.New("not found")
	ErrStorage           = errors.New("storage error")
)

// WrapError attaches a message to one of the sentinel errors above so the
// result still matches errors.Is(err, sentinel).
func WrapError(sentinel error, format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, a...)...)
}

// Recover is deferred by cron jobs so a panicking task cannot take down the
// scheduler goroutine.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
