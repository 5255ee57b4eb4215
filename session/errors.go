package session

import "github.com/grailbio/base/errors"

// errCancelled wraps context cancellation with the errors.Canceled
// kind, mirroring dispatch.errCancelled at the coordinator's own
// cancellation check point (between regions, never inside a kernel).
func errCancelled(cause error) error {
	return errors.E(errors.Canceled, "session", cause)
}
