package pii

import (
	"bytes"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
)

// MaskedPlaceholder replaces every value stored under a sensitive key.
const MaskedPlaceholder = "***MASKED***"

// DefaultSensitiveTerms is the denylist used when none is configured.
var DefaultSensitiveTerms = []string{"password", "password_hash", "token", "secret", "api_key", "authorization"}

// Redactor masks values in key-value structures whose key contains one of its terms.
type Redactor struct {
	terms []string
}

// NewRedactor creates a Redactor for the given terms. Matching is case-insensitive and
// by substring, so "password" also covers "new_password" and "PasswordHash".
func NewRedactor(terms []string) *Redactor {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			normalized = append(normalized, term)
		}
	}
	return &Redactor{terms: normalized}
}

// IsSensitive reports whether values stored under key must be masked.
func (r *Redactor) IsSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, term := range r.terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Mask returns a copy of data with sensitive values replaced by MaskedPlaceholder.
// Nested maps are walked. Structs and other string-keyed maps are walked through
// their JSON object form, so json tags decide the keys that are matched. Lists and
// scalars are passed through as-is. The input map is never modified.
func (r *Redactor) Mask(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	masked := make(map[string]any, len(data))
	for key, value := range data {
		if r.IsSensitive(key) {
			masked[key] = MaskedPlaceholder
			continue
		}
		switch nested := value.(type) {
		case map[string]any:
			masked[key] = r.Mask(nested)
		case map[string]string:
			masked[key] = r.maskStrings(nested)
		default:
			if object, ok := asObject(value); ok {
				masked[key] = r.Mask(object)
				continue
			}
			masked[key] = value
		}
	}
	return masked
}

// asObject decodes structs and string-keyed maps that encode as a JSON object.
// Anything else, including values with their own scalar encoding such as
// time.Time, is reported as not an object.
func asObject(value any) (map[string]any, bool) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch {
	case v.Kind() == reflect.Struct:
	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
	default:
		return nil, false
	}

	raw, err := json.Marshal(value)
	if err != nil || !bytes.HasPrefix(raw, []byte("{")) {
		return nil, false
	}
	var object map[string]any
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, false
	}
	return object, true
}

func (r *Redactor) maskStrings(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	masked := make(map[string]string, len(data))
	for key, value := range data {
		if r.IsSensitive(key) {
			value = MaskedPlaceholder
		}
		masked[key] = value
	}
	return masked
}
