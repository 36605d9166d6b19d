package srvconnect

//
// Error taxonomy
//

import "errors"

// Operations in which a connection attempt may fail.
const (
	// ResolveOperation means the SRV query itself failed.
	ResolveOperation = "resolve"

	// RewriteOperation means we could not synthesize a valid
	// destination from the selected SRV record.
	RewriteOperation = "rewrite"

	// ConnectOperation means the inner connector failed.
	ConnectOperation = "connect"

	// ReadyOperation means the inner connector reported itself
	// not ready for new connection attempts.
	ReadyOperation = "ready"
)

// ErrNoSRVRecords is the explicit "no SRV records for this name" signal
// returned by resolvers. It is an expected outcome, not a failure: the
// adapter reacts by falling back to the original destination. It is
// distinct from a failed query, which is fatal to the attempt.
var ErrNoSRVRecords = errors.New("dns: no SRV records")

// ServiceError is the error returned by a ServiceConnector. It wraps the
// underlying cause and records the operation during which it occurred.
//
// The Error method forwards the cause's message, so a ServiceError is
// indistinguishable in display from the error the collaborator produced;
// use errors.As to recover the failed operation and errors.Is/Unwrap to
// walk the cause chain.
type ServiceError struct {
	// Operation is one of the XXXOperation constants.
	Operation string

	// WrappedErr is the underlying cause. Never nil.
	WrappedErr error
}

// Error implements error.
func (e *ServiceError) Error() string {
	return e.WrappedErr.Error()
}

// Unwrap allows to access the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.WrappedErr
}

// newServiceError creates a ServiceError for the given operation and
// cause. When the cause is already a ServiceError (e.g., because the
// inner connector is itself a ServiceConnector), the child's operation
// wins: the topmost wrapper reports the step that actually failed.
func newServiceError(operation string, err error) *ServiceError {
	var child *ServiceError
	if errors.As(err, &child) {
		operation = child.Operation
	}
	return &ServiceError{
		Operation:  operation,
		WrappedErr: err,
	}
}
