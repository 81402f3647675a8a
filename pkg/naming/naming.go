// Package naming derives identifier casings from raw OpenAPI names and
// synthesizes operation names from HTTP routes.
package naming

import (
	"strings"
	"unicode"
)

// Unnamed is used when a raw name has no letters or digits at all.
const Unnamed = "unnamed"

// Name is a raw name together with its pre-computed casings.
// Two names are the same name when their Original strings are equal.
type Name struct {
	Original       string
	Pascal         string
	Camel          string
	Snake          string
	ScreamingSnake string
}

// Normalize computes every casing of raw. It never fails: input without any
// letter or digit is normalized as "unnamed".
func Normalize(raw string) Name {
	s := Sanitize(raw)
	n := Name{
		Original:       raw,
		Pascal:         Pascal(s),
		Camel:          Camel(s),
		Snake:          Snake(s),
		ScreamingSnake: ScreamingSnake(s),
	}
	if n.Pascal == "" {
		// letters outside ASCII survive Sanitize but not word splitting
		n.Pascal, n.Camel, n.Snake, n.ScreamingSnake = "Unnamed", Unnamed, Unnamed, "UNNAMED"
	}
	return n
}

// String returns the original name.
func (n Name) String() string {
	return n.Original
}

// Equal reports whether n and o were normalized from the same raw string.
func (n Name) Equal(o Name) bool {
	return n.Original == o.Original
}

// Sanitize keeps letters and digits, collapses every run of other characters
// into a single underscore and prefixes a leading digit with an underscore.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	sep := false
	first := true
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			sep = true
			first = false
			continue
		}
		if first && r >= '0' && r <= '9' {
			b.WriteByte('_')
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		sep = false
		first = false
	}
	if b.Len() == 0 {
		return Unnamed
	}
	return b.String()
}

// RouteToName builds a camelCase operation name from an HTTP method and a
// path template.
//
//	GET    /users                -> listUsers
//	GET    /users/{id}           -> getUser
//	POST   /users/{id}/messages  -> createUsersMessages
//
// Only the last resource segment is singularized, and only when the path
// ends in a parameter.
func RouteToName(method, path string) string {
	var resources []string
	endsWithParam := false
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			endsWithParam = true
			continue
		}
		resources = append(resources, seg)
		endsWithParam = false
	}

	var prefix string
	switch strings.ToUpper(method) {
	case "GET":
		prefix = "list"
		if endsWithParam {
			prefix = "get"
		}
	case "POST":
		prefix = "create"
	case "PUT":
		prefix = "update"
	case "DELETE":
		prefix = "delete"
	case "PATCH":
		prefix = "patch"
	default:
		prefix = strings.ToLower(method)
	}

	var b strings.Builder
	b.WriteString(prefix)
	for i, word := range resources {
		if i == len(resources)-1 && endsWithParam {
			word = Singularize(word)
		}
		b.WriteString(Pascal(word))
	}
	return b.String()
}

// Singularize strips a plural suffix using a handful of English rules.
// It is intentionally naive: "ies" becomes "y", "ses", "xes" and "zes" lose
// two characters, and a trailing "s" that is not part of "ss" is dropped.
func Singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ses"), strings.HasSuffix(word, "xes"), strings.HasSuffix(word, "zes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}
