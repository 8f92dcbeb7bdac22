// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package setting interprets stored setting text according to its declared type.
//
// Decoding never fails: malformed input degrades to the raw text as a StringValue.
package setting

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olegiv/navcms/internal/model"
)

// Kind identifies the variant held by a Value.
type Kind string

// Value kinds.
const (
	KindString Kind = "string"
	KindBool   Kind = "boolean"
	KindNumber Kind = "number"
	KindJSON   Kind = "json"
	KindColor  Kind = "color"
)

// Value is a decoded setting value. The set of implementations is closed.
type Value interface {
	json.Marshaler
	Kind() Kind
	// Native returns the plain Go value (string, bool, int64, float64 or decoded JSON).
	Native() any
	isValue()
}

// StringValue is text returned verbatim.
type StringValue string

// BoolValue is a decoded boolean.
type BoolValue bool

// ColorValue is a color with a guaranteed leading '#'.
type ColorValue string

// NumberValue holds either an integer or a floating-point number.
type NumberValue struct {
	i       int64
	f       float64
	isFloat bool
}

// JSONValue holds structured data decoded from JSON text.
// Numbers inside are kept as json.Number so integers survive re-encoding.
type JSONValue struct {
	data any
}

// Int returns an integer NumberValue.
func Int(i int64) NumberValue { return NumberValue{i: i} }

// Float returns a floating-point NumberValue.
func Float(f float64) NumberValue { return NumberValue{f: f, isFloat: true} }

func (StringValue) Kind() Kind { return KindString }
func (BoolValue) Kind() Kind   { return KindBool }
func (ColorValue) Kind() Kind  { return KindColor }
func (NumberValue) Kind() Kind { return KindNumber }
func (JSONValue) Kind() Kind   { return KindJSON }

func (v StringValue) Native() any { return string(v) }
func (v BoolValue) Native() any   { return bool(v) }
func (v ColorValue) Native() any  { return string(v) }
func (v JSONValue) Native() any   { return v.data }

func (v NumberValue) Native() any {
	if v.isFloat {
		return v.f
	}
	return v.i
}

func (v StringValue) MarshalJSON() ([]byte, error) { return json.Marshal(string(v)) }
func (v BoolValue) MarshalJSON() ([]byte, error)   { return json.Marshal(bool(v)) }
func (v ColorValue) MarshalJSON() ([]byte, error)  { return json.Marshal(string(v)) }
func (v JSONValue) MarshalJSON() ([]byte, error)   { return json.Marshal(v.data) }

func (v NumberValue) MarshalJSON() ([]byte, error) {
	if v.isFloat {
		return json.Marshal(v.f)
	}
	return []byte(strconv.FormatInt(v.i, 10)), nil
}

func (StringValue) isValue() {}
func (BoolValue) isValue()   {}
func (ColorValue) isValue()  {}
func (NumberValue) isValue() {}
func (JSONValue) isValue()   {}

// truthy holds the lower-cased spellings that decode to true.
var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
	"t":    true,
}

// Decode interprets raw according to typ.
//
// Empty text yields StringValue("") for every type, including boolean.
// Unknown types are returned verbatim.
func Decode(raw, typ string) Value {
	if raw == "" {
		return StringValue("")
	}

	switch typ {
	case model.SettingTypeBoolean:
		return BoolValue(truthy[strings.ToLower(raw)])
	case model.SettingTypeNumber:
		return decodeNumber(raw)
	case model.SettingTypeJSON:
		return decodeJSON(raw)
	case model.SettingTypeColor:
		if strings.HasPrefix(raw, "#") {
			return ColorValue(raw)
		}
		return ColorValue("#" + raw)
	default:
		return StringValue(raw)
	}
}

func decodeNumber(raw string) Value {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return StringValue(raw)
		}
		return Float(f)
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return StringValue(raw)
	}
	return Int(i)
}

func decodeJSON(raw string) Value {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return StringValue(raw)
	}
	// Reject trailing content such as `{} {}`.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return StringValue(raw)
	}
	return JSONValue{data: data}
}
