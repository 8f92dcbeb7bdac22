// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the read models served by the API and the
// administrative writes that invalidate them.
//
// Read methods that return []byte hand back the cached JSON payload as it is
// written to clients. Missing menus, settings and media resolve to empty
// projections; only unexpected failures are returned as errors.
package service

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Sentinel errors mapped to HTTP statuses by the API handlers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// textSanitizer strips all markup from admin-supplied plain-text fields.
var textSanitizer = bluemonday.StrictPolicy()

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// InputError describes a rejected admin request, one message per field.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	slices.Sort(parts)
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func fieldError(field, msg string) error {
	return &InputError{Fields: map[string]string{field: msg}}
}

// validateInput runs struct-tag validation and converts failures to an
// InputError keyed by the JSON field name.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = "is required"
		case "max":
			fields[field] = fmt.Sprintf("must be at most %s characters", e.Param())
		case "gt":
			fields[field] = fmt.Sprintf("must be greater than %s", e.Param())
		case "gte":
			fields[field] = fmt.Sprintf("must be greater than or equal to %s", e.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("must be one of: %s", e.Param())
		case "hexcolor":
			fields[field] = "must be a hex color"
		default:
			fields[field] = "is invalid"
		}
	}
	return &InputError{Fields: fields}
}

// sanitizeText removes markup and surrounding whitespace from plain text.
func sanitizeText(s string) string {
	return html.UnescapeString(textSanitizer.Sanitize(strings.TrimSpace(s)))
}
