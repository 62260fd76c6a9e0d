package application

import "context"

// PaymentOutcome is what the payment collaborator reports back.
type PaymentOutcome string

const (
	PaymentSuccess   PaymentOutcome = "success"
	PaymentCancelled PaymentOutcome = "cancelled"
)

// PaymentGateway is the opaque payment collaborator. The core only needs to
// open it and learn the outcome; everything behind it is out of scope.
type PaymentGateway interface {
	Open(ctx context.Context) (PaymentOutcome, error)
}

// StubPaymentGateway stands in for the real payment dialog and always reports
// success, like the original confirmation modal.
type StubPaymentGateway struct{}

// Open reports success.
func (StubPaymentGateway) Open(context.Context) (PaymentOutcome, error) {
	return PaymentSuccess, nil
}
