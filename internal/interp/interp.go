// Package interp resolves {{key}} placeholders against execution state.
//
// Keys are flat word-character identifiers; dotted paths and
// expressions are not supported. Unresolved tokens are left verbatim
// so a misconfigured template degrades visibly instead of erroring.
package interp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/weftworks/weft/internal/weft"
)

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Interpolate replaces every {{key}} token in template with the key's
// string representation from the execution context. Lookup order is
// input variables, then node results. Empty templates and nil contexts
// pass through unchanged.
func Interpolate(template string, ec *weft.ExecutionContext) string {
	if template == "" || ec == nil {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.Trim(match, "{}")
		v, ok := ec.Lookup(key)
		if !ok {
			return match
		}
		return Stringify(v)
	})
}

// Stringify renders a value for substitution: strings pass through,
// scalars format with %v, composites marshal to JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool, int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
