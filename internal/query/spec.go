package query

// Op is the comparison a filter applies to a record field.
type Op int

const (
	OpIn       Op = iota // field value is one of the caller's values
	OpEq                 // field equals the caller's value
	OpContains           // caller's value is a substring of the field
	OpLocation           // substring of Paths[0] (city) or equal to Paths[1] (code)
	OpMin                // field >= value, missing field counts as 0
	OpMax                // field <= value, missing field counts as 0
	OpNumEq              // field == value, missing field counts as 0
	OpBool               // field is exactly the caller's boolean
	OpAll                // every caller value is in the field's list
	OpHas                // caller's value is in the field's list
	OpAtLeast            // lexical field >= value (ISO dates)
	OpPrefix             // field starts with the caller's value
)

// Kind is how the raw query value is parsed.
type Kind int

const (
	KindString Kind = iota
	KindStrings
	KindNumber
	KindBool
)

// Filter maps one named criterion to record paths and an operator.
// String comparisons are case-insensitive except for OpAtLeast.
type Filter struct {
	Name     string
	Paths    []string
	Op       Op
	Kind     Kind
	Required bool
}

// SortKey binds a named sort order to a numeric record path.
type SortKey struct {
	Path string
	Desc bool
}

// Spec is the field-mapping table for one inventory domain.
type Spec struct {
	Filters []Filter
	Sorts   map[string]SortKey
}

func F(name string, op Op, kind Kind, paths ...string) Filter {
	return Filter{Name: name, Paths: paths, Op: op, Kind: kind}
}

// MustHave marks the filter as mandatory for the search.
func (f Filter) MustHave() Filter {
	f.Required = true
	return f
}

// PriceSorts is the common price_asc / price_desc pair on one path.
func PriceSorts(path string) map[string]SortKey {
	return map[string]SortKey{
		"price_asc":  {Path: path},
		"price_desc": {Path: path, Desc: true},
	}
}

// With returns a copy of s extended with extra sort orders.
func With(s map[string]SortKey, extra map[string]SortKey) map[string]SortKey {
	out := make(map[string]SortKey, len(s)+len(extra))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
