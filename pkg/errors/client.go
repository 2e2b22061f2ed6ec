// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Validation is returned when a request or payload fails validation.
type Validation struct {
	base
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{base: base{message: message, err: errors.Join(err...)}}
}

// Unauthorized is returned when the caller could not be authenticated.
type Unauthorized struct {
	base
}

// Error returns the error message for Unauthorized.
func (u Unauthorized) Error() string {
	return u.error()
}

// NewUnauthorized creates a new Unauthorized error with the provided message.
func NewUnauthorized(message string, err ...error) Unauthorized {
	return Unauthorized{base: base{message: message, err: errors.Join(err...)}}
}

// Forbidden is returned when the caller does not own the target resource.
type Forbidden struct {
	base
}

// Error returns the error message for Forbidden.
func (f Forbidden) Error() string {
	return f.error()
}

// NewForbidden creates a new Forbidden error with the provided message.
func NewForbidden(message string, err ...error) Forbidden {
	return Forbidden{base: base{message: message, err: errors.Join(err...)}}
}

// NotFound is returned when a collection, group or record does not exist.
type NotFound struct {
	base
}

// Error returns the error message for NotFound.
func (n NotFound) Error() string {
	return n.error()
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{base: base{message: message, err: errors.Join(err...)}}
}

// MethodNotAllowed is returned for HTTP verbs an endpoint refuses.
type MethodNotAllowed struct {
	base
}

// Error returns the error message for MethodNotAllowed.
func (m MethodNotAllowed) Error() string {
	return m.error()
}

// NewMethodNotAllowed creates a new MethodNotAllowed error with the provided message.
func NewMethodNotAllowed(message string, err ...error) MethodNotAllowed {
	return MethodNotAllowed{base: base{message: message, err: errors.Join(err...)}}
}

// Conflict is returned when a resource already exists, e.g. an active
// collection for the same commons group.
type Conflict struct {
	base
}

// Error returns the error message for Conflict.
func (c Conflict) Error() string {
	return c.error()
}

// NewConflict creates a new Conflict error with the provided message.
func NewConflict(message string, err ...error) Conflict {
	return Conflict{base: base{message: message, err: errors.Join(err...)}}
}

// Unprocessable is returned when a request is well formed but cannot be
// carried out in the current state, or an upstream answered with garbage.
type Unprocessable struct {
	base
}

// Error returns the error message for Unprocessable.
func (u Unprocessable) Error() string {
	return u.error()
}

// NewUnprocessable creates a new Unprocessable error with the provided message.
func NewUnprocessable(message string, err ...error) Unprocessable {
	return Unprocessable{base: base{message: message, err: errors.Join(err...)}}
}

// NotImplemented is returned by operations that are exposed but not supported yet.
type NotImplemented struct {
	base
}

// Error returns the error message for NotImplemented.
func (n NotImplemented) Error() string {
	return n.error()
}

// NewNotImplemented creates a new NotImplemented error with the provided message.
func NewNotImplemented(message string, err ...error) NotImplemented {
	return NotImplemented{base: base{message: message, err: errors.Join(err...)}}
}
