package model

import (
	"regexp"
	"strings"
)

// snakeRule inserts an underscore between its two capture groups. Rules are
// applied in order, each over the whole name.
type snakeRule struct {
	name string
	re   *regexp.Regexp
}

// The rule list deliberately has no letter-to-digit rule: a name ending in
// a digit run ("ReadBinaryI32") keeps the digits attached to the preceding
// token ("read_binary_i32"). Generated identifiers across the catalog
// depend on this staying stable.
var snakeRules = []snakeRule{
	{"word boundary", regexp.MustCompile(`([^_\n])([A-Z][a-z]+)`)},
	{"lower to upper", regexp.MustCompile(`([a-z])([A-Z])`)},
	{"digit to letter", regexp.MustCompile(`([0-9])([^_0-9])`)},
}

// CamelToSnake converts a mixed-case driver identifier to snake_case.
func CamelToSnake(name string) string {
	for _, rule := range snakeRules {
		name = rule.re.ReplaceAllString(name, "${1}_${2}")
	}
	name = strings.ToLower(name)
	// "UInt" tokenizes as u_int; the driver convention reads it as one word.
	return strings.ReplaceAll(name, "_u_int", "_uint")
}

// GoName converts a snake_case name to an exported Go identifier.
func GoName(snake string) string {
	parts := strings.Split(snake, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
