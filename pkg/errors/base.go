// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors provides the typed error taxonomy shared by the group collections service.
package errors

import "fmt"

// base holds the fields shared by every error type in this package.
type base struct {
	message string
	err     error
}

// error formats the message and, when present, the wrapped cause.
// Every type embedding base reports its message through here.
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Unwrap exposes the underlying error to support errors.Is / errors.As.
func (b base) Unwrap() error {
	return b.err
}

// Message returns the message without the wrapped cause.
func (b base) Message() string {
	return b.message
}
