package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	if err := s.SaveDay(ctx, date, day); err != nil {
//	    return errors.Wrap(err, "failed to save order map")
//	}
//
// The wrapped error preserves the original chain, so callers can still
// check errors.Is(err, errors.ErrLockTimeout).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
//
//	return errors.Wrapf(err, "failed to stop instance %s", id)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// StorageWrite marks err as a failed write of persisted state while keeping
// the underlying cause in the chain. Returns nil if err is nil.
func StorageWrite(err error, what string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageWrite, what, err)
}
