package dispatch

import "fmt"

// DeliveryError is returned when the transport rejects a formatted message.
// The router reacts by sending the plain rendering instead.
type DeliveryError struct {
	Format string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Format, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking request.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while handling request: %v", e.Value)
}
