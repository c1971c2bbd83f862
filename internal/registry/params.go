package registry

import "github.com/teamtodo/taskgate/model"

// ParseParams validates a call's raw parameter bag against its ParamSpec and
// produces the positional argument list in spec order.
//
// A missing key is looked up as nil; whether that is an error is the
// validator's decision, not key presence. All failures are accumulated so
// the caller receives every invalid field in one response. An empty spec
// always succeeds with an empty argument list.
func ParseParams(params map[string]any, expected model.ParamSpec) model.ParseResult {
	out := make(model.RawParams, 0, len(expected))
	var invalid model.InvalidList

	for _, p := range expected {
		raw := params[p.Name]

		if p.Validator == nil {
			out = append(out, raw)
			continue
		}

		value, reason := p.Validator.Validate(raw)
		if reason != "" {
			invalid = append(invalid, model.Invalid{Field: p.Name, Reason: reason})
			continue
		}
		out = append(out, value)
	}

	if len(invalid) > 0 {
		return model.ParseResult{Invalid: invalid}
	}
	return model.ParseResult{Params: out}
}
