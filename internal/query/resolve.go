package query

import (
	"fmt"
	"strconv"

	"expedia_inspired/internal/domain"
)

// IDPolicy is how a caller-supplied id is compared with a record's "id".
type IDPolicy int

const (
	// IDStrict matches string ids only, byte for byte.
	IDStrict IDPolicy = iota
	// IDNormalized compares the string form of any scalar id.
	IDNormalized
	// IDInteger requires an integer id and matches numeric record ids.
	IDInteger
)

// Check rejects ids the policy can never match.
func (p IDPolicy) Check(id string) error {
	if p == IDInteger {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return fmt.Errorf("%w: id must be an integer", domain.ErrMalformedCriteria)
		}
	}
	return nil
}

func (p IDPolicy) match(v any, id string) bool {
	switch p {
	case IDNormalized:
		s, ok := idString(v)
		return ok && s == id
	case IDInteger:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return false
		}
		switch t := v.(type) {
		case float64:
			return t == float64(n)
		case int:
			return int64(t) == n
		case int64:
			return t == n
		}
		return false
	default:
		s, ok := v.(string)
		return ok && s == id
	}
}

// FindByID returns the first record whose id matches. A miss yields an empty
// record and false; it is not an error.
func FindByID(records []domain.Record, policy IDPolicy, id string) (domain.Record, bool) {
	for _, r := range records {
		if policy.match(r["id"], id) {
			return r, true
		}
	}
	return domain.Record{}, false
}

// Related returns every record whose foreign key at path equals id.
func Related(records []domain.Record, path, id string) []domain.Record {
	out := make([]domain.Record, 0)
	for _, r := range records {
		if s, ok := idString(lookupAny(r, path)); ok && s == id {
			out = append(out, r)
		}
	}
	return out
}

// IDKey is the string form of a scalar id, as used for cross-file joins.
func IDKey(v any) (string, bool) { return idString(v) }
