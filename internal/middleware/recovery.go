// Package middleware holds the recovery helpers that keep one misbehaving
// rule from taking the whole correction down.
package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"ohcrab/internal/logger"
)

// PanicError is returned by the Safe* helpers when the wrapped function
// panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	var p *PanicError
	return errors.As(err, &p)
}

// RecoveryFunc is a function that recovers from panics
type RecoveryFunc func(recovered any, stack []byte)

// DefaultRecovery logs the panic at debug level; ohcrab treats it as a miss.
func DefaultRecovery(recovered any, stack []byte) {
	logger.Debug("panic recovered",
		"error", fmt.Sprintf("%v", recovered),
		"stack", string(stack),
	)
}

// Recover runs fn and swallows any panic it raises.
func Recover(fn func()) {
	RecoverWithContext(fn, DefaultRecovery)
}

// RecoverWithContext recovers from panics with a custom recovery function
func RecoverWithContext(fn func(), recovery RecoveryFunc) {
	defer func() {
		if r := recover(); r != nil {
			recovery(r, debug.Stack())
		}
	}()
	fn()
}

// SafeCall calls fn, turning a panic into a *PanicError.
func SafeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p := &PanicError{Value: r, Stack: debug.Stack()}
			DefaultRecovery(p.Value, p.Stack)
			err = p
		}
	}()
	return fn()
}

// SafeCallWithResult is SafeCall for functions that produce a value. On
// panic the zero value is returned.
func SafeCallWithResult[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			p := &PanicError{Value: r, Stack: debug.Stack()}
			DefaultRecovery(p.Value, p.Stack)
			var zero T
			result, err = zero, p
		}
	}()
	return fn()
}
