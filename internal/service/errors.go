package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	// ErrAccountNotVerified rejects logins from accounts whose email has
	// not been confirmed yet.
	ErrAccountNotVerified = errors.New("account not verified")

	// ErrTokenInvalid covers tokens that fail signature, purpose, or
	// persisted-row checks. Deliberately uninformative: the caller only
	// learns the credential did not work.
	ErrTokenInvalid = errors.New("token is invalid")

	ErrTokenIsExpired = errors.New("token is expired")

	// ErrNotAllowed is returned when an authenticated user attempts an
	// operation on a resource they neither own nor administer.
	ErrNotAllowed = errors.New("operation not allowed")

	// ErrPaymentAlreadyResolved rejects webhook replays for payments that
	// already left the processing state.
	ErrPaymentAlreadyResolved = errors.New("payment already resolved")

	// ErrPaymentStillProcessing is returned when the bounded session-status
	// poll exhausts its attempts before the webhook resolves the payment.
	ErrPaymentStillProcessing = errors.New("payment still processing")

	// ErrUnexpectedWebhookEvent is returned for webhook deliveries whose
	// re-retrieved event is not a completed checkout session.
	ErrUnexpectedWebhookEvent = errors.New("unexpected webhook event")
)
