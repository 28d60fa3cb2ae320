// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// Kind classifies service errors for the transport layer.
type Kind int

// Error kinds
const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Error is a business error with a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	// Details holds per-field messages for validation errors.
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound) works
// for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrDuplicate  = &Error{Kind: KindDuplicate}
)

// KindOf returns the kind of a service error, or 0 for any other error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func validationError(message string, details map[string]string) error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func duplicateError(message string, cause error) error {
	return &Error{Kind: KindDuplicate, Message: message, Err: cause}
}

// translateStoreError maps store failures onto service kinds. Unique
// constraint violations that slipped past pre-validation become duplicates.
func translateStoreError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFoundError("%s not found.", what)
	case store.IsUniqueViolation(err):
		return duplicateError(fmt.Sprintf("A %s with the same slug already exists.", what), err)
	case errors.Is(err, util.ErrSlugAttemptsExhausted):
		return duplicateError(fmt.Sprintf("Could not find a free slug for this %s, please choose a different title.", what), err)
	default:
		return err
	}
}
