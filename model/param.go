package model

// Validator checks and coerces one raw parameter value. The two concrete
// shapes are SchemaValidator (type/shape/format check with coercion) and
// PredicateValidator (boolean check, value passed through). Both return the
// coerced value, or a short machine-readable reason on failure.
type Validator interface {
	Validate(raw any) (any, string)
}

// PredicateValidator wraps a plain boolean check. On success the original
// value is returned unchanged; on failure the reason is always
// "failedCustomValidation".
type PredicateValidator struct {
	Check func(raw any) bool
}

// Validate implements Validator.
func (v PredicateValidator) Validate(raw any) (any, string) {
	if v.Check == nil || !v.Check(raw) {
		return nil, "failedCustomValidation"
	}
	return raw, ""
}

// SchemaValidator is a type/shape/format check with coercion, built from a
// coerce function that returns the typed value or a reason code.
type SchemaValidator struct {
	Coerce func(raw any) (any, string)
}

// Validate implements Validator.
func (v SchemaValidator) Validate(raw any) (any, string) {
	return v.Coerce(raw)
}

// Param is one entry of a call's parameter contract. A nil Validator means
// the value is passed through unchecked.
type Param struct {
	Name      string
	Validator Validator
}

// ParamSpec is the ordered parameter contract of one call. Order defines the
// positional argument order handed to the store and must match the declared
// parameter order of the store-side procedure.
type ParamSpec []Param

// Invalid records one field that failed validation.
type Invalid struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// InvalidList is the complete set of validation failures for one call, in
// ParamSpec order. Validation never short-circuits: if N fields are bad the
// caller sees all N.
type InvalidList []Invalid

// ParseResult is the outcome of validating one call's parameter bag:
// positional params on success XOR the invalid list on failure.
type ParseResult struct {
	Params  RawParams
	Invalid InvalidList
}

// OK reports whether validation succeeded.
func (r ParseResult) OK() bool { return len(r.Invalid) == 0 }
