package typemix

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultRenames is the fixed rename table applied to wire keys before case
// folding. It lets a document carry keys that cannot be Go field names
// verbatim, such as "self".
var DefaultRenames = map[string]string{
	"self": "_self",
}

// ToSnake folds camelCase, PascalCase and kebab-case into snake_case.
// Bracket and dash characters enclosing the key are stripped first.
// Keys already in snake_case are returned unchanged.
//
//	ToSnake("namesByLang") == "names_by_lang"
//	ToSnake("HTTPServer")  == "http_server"
//	ToSnake("--dry-run")   == "dry_run"
func ToSnake(s string) string {
	s = strings.Trim(s, "-<>[](){}")
	if s == "" {
		return s
	}
	rs := []rune(s)
	b := &strings.Builder{}
	b.Grow(len(s) + 4)
	for i, r := range rs {
		if r == '-' {
			b.WriteByte('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && needsBreak(rs, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// needsBreak reports whether an underscore goes before the upper-case rune
// at i. Acronym runs stay together ("ID" -> "id", "userID" -> "user_id")
// and the last capital of a run starts the next word ("HTTPServer").
func needsBreak(rs []rune, i int) bool {
	prev := rs[i-1]
	if prev == '_' || prev == '-' {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
		return true
	}
	return false
}

// NormalizeKey applies renames and, unless preserve is set, snake-case
// folding to a single wire key.
func NormalizeKey(key string, renames map[string]string, preserve bool) string {
	if r, ok := renames[key]; ok {
		key = r
	}
	if preserve {
		return key
	}
	return ToSnake(key)
}

// NormalizeKeys returns a copy of m with every key normalized. When two raw
// keys fold to the same name, a key that was already normalized wins;
// otherwise the lexically first raw key wins. The result is deterministic.
func NormalizeKeys(m map[string]any, renames map[string]string, preserve bool) map[string]any {
	out := make(map[string]any, len(m))
	if len(m) == 0 {
		return out
	}
	raw := make([]string, 0, len(m))
	for k := range m {
		raw = append(raw, k)
	}
	sort.Strings(raw)
	// first pass: keys that are already in normalized form
	for _, k := range raw {
		if NormalizeKey(k, renames, preserve) == k {
			out[k] = m[k]
		}
	}
	for _, k := range raw {
		nk := NormalizeKey(k, renames, preserve)
		if nk == k {
			continue
		}
		if _, taken := out[nk]; taken {
			continue
		}
		out[nk] = m[k]
	}
	return out
}
