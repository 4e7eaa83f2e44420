package query

import (
	"sort"
	"strings"

	"expedia_inspired/internal/domain"
)

// Search keeps the records satisfying every present criterion, then applies
// the named sort order. Unknown or empty sortBy keeps the filtered order.
// The input slice and its records are never modified.
func Search(records []domain.Record, spec Spec, c Criteria, sortBy string) domain.Result {
	preds := predicates(spec, c)

	items := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if matchAll(r, preds) {
			items = append(items, r)
		}
	}

	if key, ok := spec.Sorts[sortBy]; ok {
		sort.SliceStable(items, func(i, j int) bool {
			a, b := lookupFloat(items[i], key.Path), lookupFloat(items[j], key.Path)
			if key.Desc {
				return a > b
			}
			return a < b
		})
	}
	return domain.Result{Count: len(items), Items: items}
}

type predicate func(domain.Record) bool

func matchAll(r domain.Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func predicates(spec Spec, c Criteria) []predicate {
	var out []predicate
	for _, f := range spec.Filters {
		v, ok := c[f.Name]
		if !ok || len(f.Paths) == 0 {
			continue
		}
		if p := build(f, v); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func build(f Filter, v Value) predicate {
	path := f.Paths[0]
	switch f.Op {
	case OpIn:
		set := make(map[string]struct{}, len(v.Strings))
		for _, s := range v.Strings {
			set[fold(s)] = struct{}{}
		}
		return func(r domain.Record) bool {
			_, ok := set[fold(lookupStr(r, path))]
			return ok
		}
	case OpEq:
		want := fold(v.Str())
		return func(r domain.Record) bool { return fold(lookupStr(r, path)) == want }
	case OpContains:
		want := fold(v.Str())
		return func(r domain.Record) bool { return strings.Contains(fold(lookupStr(r, path)), want) }
	case OpLocation:
		want := fold(v.Str())
		return func(r domain.Record) bool {
			if strings.Contains(fold(lookupStr(r, path)), want) {
				return true
			}
			return len(f.Paths) > 1 && fold(lookupStr(r, f.Paths[1])) == want
		}
	case OpMin:
		return func(r domain.Record) bool { return lookupFloat(r, path) >= v.Number }
	case OpMax:
		return func(r domain.Record) bool { return lookupFloat(r, path) <= v.Number }
	case OpNumEq:
		return func(r domain.Record) bool { return lookupFloat(r, path) == v.Number }
	case OpBool:
		return func(r domain.Record) bool { return lookupBool(r, path) == v.Bool }
	case OpAll:
		wants := make([]string, 0, len(v.Strings))
		for _, s := range v.Strings {
			wants = append(wants, fold(s))
		}
		return func(r domain.Record) bool {
			have := foldSet(lookupStrings(r, path))
			for _, w := range wants {
				if _, ok := have[w]; !ok {
					return false
				}
			}
			return true
		}
	case OpHas:
		want := fold(v.Str())
		return func(r domain.Record) bool {
			_, ok := foldSet(lookupStrings(r, path))[want]
			return ok
		}
	case OpAtLeast:
		want := v.Str()
		return func(r domain.Record) bool { return lookupStr(r, path) >= want }
	case OpPrefix:
		want := fold(v.Str())
		return func(r domain.Record) bool { return strings.HasPrefix(fold(lookupStr(r, path)), want) }
	}
	return nil
}

func foldSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[fold(s)] = struct{}{}
	}
	return out
}
