package observability

// defaultSensitiveFields is the default set of parameter names that are
// redacted in debug logging output.
var defaultSensitiveFields = map[string]bool{
	"password":      true,
	"old_password":  true,
	"new_password":  true,
	"password_hash": true,
	"two_fa_secret": true,
	"code":          true,
	"secret":        true,
	"token":         true,
	"authorization": true,
}

// RedactParams returns a copy of a call's parameter bag with sensitive
// fields replaced by "[REDACTED]". The sensitiveFields list is merged with
// the defaults. Intended for debug-level logging only.
func RedactParams(params map[string]any, sensitiveFields []string) map[string]any {
	if params == nil {
		return nil
	}

	redactSet := make(map[string]bool, len(defaultSensitiveFields)+len(sensitiveFields))
	for k, v := range defaultSensitiveFields {
		redactSet[k] = v
	}
	for _, f := range sensitiveFields {
		redactSet[f] = true
	}

	result := make(map[string]any, len(params))
	for k, v := range params {
		if redactSet[k] {
			result[k] = "[REDACTED]"
		} else if nested, ok := v.(map[string]any); ok {
			result[k] = RedactParams(nested, sensitiveFields)
		} else {
			result[k] = v
		}
	}
	return result
}
