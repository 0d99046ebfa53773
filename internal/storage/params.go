package storage

import (
	"fmt"
	"sort"
	"strings"
)

// expandNamedQuery rewrites a query using :name parameters into positional
// form. database/sql does not expand IN (:name) lists, so set-valued
// parameters (token sets, key lists) become one placeholder per element.
// A parameter may appear more than once; its value is bound at each site.
func expandNamedQuery(query string, params map[string]any) (string, []any, error) {
	var sb strings.Builder
	var args []any
	runes := []rune(query)
	i := 0
	for i < len(runes) {
		if runes[i] != ':' || i+1 >= len(runes) || !isIdentRune(runes[i+1]) {
			sb.WriteRune(runes[i])
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && isIdentRune(runes[j]) {
			j++
		}
		name := string(runes[i+1 : j])
		value, ok := params[name]
		if !ok {
			return "", nil, fmt.Errorf("missing query parameter %q", name)
		}
		switch v := value.(type) {
		case map[string]struct{}:
			elems := make([]string, 0, len(v))
			for e := range v {
				elems = append(elems, e)
			}
			sort.Strings(elems)
			sb.WriteString(placeholders(len(elems)))
			for _, e := range elems {
				args = append(args, e)
			}
		case []string:
			sb.WriteString(placeholders(len(v)))
			for _, e := range v {
				args = append(args, e)
			}
		case []int64:
			sb.WriteString(placeholders(len(v)))
			for _, e := range v {
				args = append(args, e)
			}
		default:
			sb.WriteByte('?')
			args = append(args, v)
		}
		i = j
	}
	return sb.String(), args, nil
}

func placeholders(n int) string {
	if n == 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
