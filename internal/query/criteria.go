package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"expedia_inspired/internal/domain"
)

// Value is one parsed criterion.
type Value struct {
	Strings []string
	Number  float64
	Bool    bool
}

func (v Value) Str() string {
	if len(v.Strings) == 0 {
		return ""
	}
	return v.Strings[0]
}

// Criteria holds the present criteria by filter name. Absent names impose no constraint.
type Criteria map[string]Value

// ParseCriteria reads the filters declared in s from query parameters.
// Empty values are treated as absent; unknown parameters are ignored.
func ParseCriteria(spec Spec, q url.Values) (Criteria, error) {
	c := Criteria{}
	for _, f := range spec.Filters {
		raw := nonEmpty(q[f.Name])
		if len(raw) == 0 {
			if f.Required {
				return nil, fmt.Errorf("%w: %s is required", domain.ErrMalformedCriteria, f.Name)
			}
			continue
		}
		switch f.Kind {
		case KindStrings:
			var list []string
			for _, r := range raw {
				for _, part := range strings.Split(r, ",") {
					if p := strings.TrimSpace(part); p != "" {
						list = append(list, p)
					}
				}
			}
			c[f.Name] = Value{Strings: list}
		case KindNumber:
			n, err := strconv.ParseFloat(strings.TrimSpace(raw[0]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a number", domain.ErrMalformedCriteria, f.Name)
			}
			c[f.Name] = Value{Number: n}
		case KindBool:
			b, err := strconv.ParseBool(strings.TrimSpace(raw[0]))
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrMalformedCriteria, f.Name)
			}
			c[f.Name] = Value{Bool: b}
		default:
			c[f.Name] = Value{Strings: []string{strings.TrimSpace(raw[0])}}
		}
	}
	return c, nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
