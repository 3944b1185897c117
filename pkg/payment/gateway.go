// Package payment hides the card processor behind a small interface so checkout logic can be
// exercised without network access.
package payment

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutRequest struct {
	UserID     uint
	CourseID   uint
	CourseName string
	Email      string
	Amount     int64 // minor units
	Currency   string
	SuccessURL string
	CancelURL  string
	// Reference is sent as the idempotency key and client reference.
	Reference string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutCompleted is the payload of a completed checkout. UserID and CourseID come from the
// metadata written by CreateCheckout and are zero when it is missing or unparsable; Email is the
// address the customer paid with and identifies the buyer when UserID is zero.
type CheckoutCompleted struct {
	SessionID string
	Reference string
	UserID    uint
	CourseID  uint
	Email     string
	Paid      bool
	Amount    int64
	Currency  string
}

type Event struct {
	ID        string
	Type      string
	Completed *CheckoutCompleted
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseEvent verifies the signature header and decodes the event.
	ParseEvent(payload []byte, signature string) (*Event, error)
}
