package service

import "errors"

// Typed errors returned by the domain services. Every operation fails with
// one of these or with an underlying storage error; callers branch with
// errors.Is and decide the user-facing message themselves.
var (
	// ErrInvalidInput reports a structurally invalid argument (empty
	// username, negative quantity, unknown classification).
	ErrInvalidInput = errors.New("invalid input")

	// ErrUsernameTaken reports a username collision on register or rename.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown username and wrong
	// password so a caller cannot probe which of the two failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMFARequired reports that a login needs a TOTP code.
	ErrMFARequired = errors.New("mfa code required")

	// ErrMFANotEnrolled reports an MFA operation without a pending or
	// active enrollment.
	ErrMFANotEnrolled = errors.New("mfa not enrolled")

	// ErrNotFound reports a missing user, contact, conversation or product.
	ErrNotFound = errors.New("not found")

	// ErrContactExists reports a duplicate (owner, target) contact pair.
	ErrContactExists = errors.New("contact already exists")

	// ErrSelfContact reports an attempt to add oneself as a contact.
	ErrSelfContact = errors.New("cannot add yourself as a contact")

	// ErrNotContact reports a send to someone outside the sender's
	// contact list.
	ErrNotContact = errors.New("recipient is not a contact")

	// ErrEmptyPayload reports a message with no content.
	ErrEmptyPayload = errors.New("empty message payload")

	// ErrPayloadTooLarge reports a text over 1000 characters or a file
	// over 100 MB.
	ErrPayloadTooLarge = errors.New("message payload too large")

	// ErrUnsupportedFileType reports a file extension outside the
	// supported attachment set.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrDuplicateCode reports a product code collision within one owner.
	ErrDuplicateCode = errors.New("product code already in use")
)
