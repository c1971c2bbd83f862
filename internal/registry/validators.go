package registry

import (
	"math"
	"net/mail"
	"time"

	"github.com/teamtodo/taskgate/model"
)

// Failure reason codes produced by the schema validators. These land in the
// InvalidList of the failure envelope, so they stay short and stable.
const (
	reasonInvalidType   = "[invalid_type]"
	reasonNotInteger    = "[not_integer]"
	reasonTooSmall      = "[too_small]"
	reasonTooBig        = "[too_big]"
	reasonInvalidString = "[invalid_string]"
	reasonInvalidDate   = "[invalid_date]"
)

// maxStringLen bounds every string parameter accepted by the gateway.
const maxStringLen = 2048

// ID accepts a non-negative integer. JSON numbers and URL-coerced path
// segments both arrive as float64, so integral floats are accepted and
// narrowed to int64.
func ID() model.Validator {
	return model.SchemaValidator{Coerce: coerceID}
}

func coerceID(raw any) (any, string) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, reasonNotInteger
		}
		// 1<<63 is the first float64 value int64 cannot hold; the
		// conversion is implementation-defined from there up.
		if v >= 1<<63 {
			return nil, reasonTooBig
		}
		n = int64(v)
	default:
		return nil, reasonInvalidType
	}
	if n < 0 {
		return nil, reasonTooSmall
	}
	return n, ""
}

// String accepts any string up to maxStringLen.
func String() model.Validator {
	return model.SchemaValidator{Coerce: coerceString}
}

func coerceString(raw any) (any, string) {
	s, ok := raw.(string)
	if !ok {
		return nil, reasonInvalidType
	}
	if len(s) > maxStringLen {
		return nil, reasonTooBig
	}
	return s, ""
}

// NonemptyString accepts a string of 1..maxStringLen bytes.
func NonemptyString() model.Validator {
	return model.SchemaValidator{Coerce: func(raw any) (any, string) {
		v, reason := coerceString(raw)
		if reason != "" {
			return nil, reason
		}
		if v.(string) == "" {
			return nil, reasonTooSmall
		}
		return v, ""
	}}
}

// Email accepts an RFC 5322 address within the string length bound.
func Email() model.Validator {
	return model.SchemaValidator{Coerce: func(raw any) (any, string) {
		v, reason := coerceString(raw)
		if reason != "" {
			return nil, reason
		}
		s := v.(string)
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return nil, reasonInvalidString
		}
		return s, ""
	}}
}

// Bool accepts a boolean.
func Bool() model.Validator {
	return model.SchemaValidator{Coerce: func(raw any) (any, string) {
		b, ok := raw.(bool)
		if !ok {
			return nil, reasonInvalidType
		}
		return b, ""
	}}
}

// dateLayouts are tried in order when coercing a string to a date.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// Date coerces a string or time.Time into a time.Time.
func Date() model.Validator {
	return model.SchemaValidator{Coerce: coerceDate}
}

func coerceDate(raw any) (any, string) {
	switch v := raw.(type) {
	case time.Time:
		return v, ""
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, ""
			}
		}
		return nil, reasonInvalidDate
	default:
		return nil, reasonInvalidDate
	}
}

// Timestamp accepts a parseable date or, failing that, any string. The
// completed_at column tolerates store-side timestamp literals the client
// echoes back unparsed.
func Timestamp() model.Validator {
	return model.SchemaValidator{Coerce: func(raw any) (any, string) {
		if v, reason := coerceDate(raw); reason == "" {
			return v, ""
		}
		return coerceString(raw)
	}}
}

// Optional wraps a validator so a missing value passes through as nil. The
// positional slot is still emitted; the store-side procedure sees NULL.
func Optional(inner model.Validator) model.Validator {
	return model.SchemaValidator{Coerce: func(raw any) (any, string) {
		if raw == nil {
			return nil, ""
		}
		return inner.Validate(raw)
	}}
}

// Predicate wraps a boolean check as a validator.
func Predicate(check func(any) bool) model.Validator {
	return model.PredicateValidator{Check: check}
}
