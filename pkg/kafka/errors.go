package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

// PermanentError marks a handler failure that retrying cannot fix, such
// as an undecodable payload. The consumer routes it straight to the DLQ.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// ShouldRetry reports whether a failed delivery gets another attempt.
func ShouldRetry(err error, retries, maxRetries int) bool {
	var perm *PermanentError
	if errors.As(err, &perm) {
		return false
	}
	return retries < maxRetries
}
