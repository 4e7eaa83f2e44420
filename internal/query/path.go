package query

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// lookupAny: safe nested lookup with dot paths on maps; numeric parts index into lists.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return s
	}
	return ""
}

// lookupFloat returns the number at path, 0 when missing or not numeric.
func lookupFloat(m map[string]any, path string) float64 {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func lookupBool(m map[string]any, path string) bool {
	b, _ := lookupAny(m, path).(bool)
	return b
}

// lookupStrings returns the string members of the list at path.
func lookupStrings(m map[string]any, path string) []string {
	raw, ok := lookupAny(m, path).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// fold is the case-insensitive comparison key. Casers keep state, so one per call.
func fold(s string) string { return cases.Fold().String(s) }

// idString normalises an identifier value for string comparison.
func idString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
