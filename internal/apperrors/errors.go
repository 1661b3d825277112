package apperrors

import "errors"

// ErrNotFound indicates that a referenced entity could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrInvalidInput indicates that input data failed validation checks
// (non-positive amounts or quantities, missing required fields).
var ErrInvalidInput = errors.New("invalid input")

// ErrInsufficientStock indicates that an operation would drive a batch
// quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrConstraintViolation indicates that an operation would break a domain
// invariant other than stock (immutable cycle history, balance reconciliation).
var ErrConstraintViolation = errors.New("constraint violation")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing or invalid session.
var ErrUnauthorized = errors.New("unauthorized")
