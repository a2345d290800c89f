package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// queryYear reads the year parameter. Absent means zero, which the service
// resolves to the default year.
func queryYear(q url.Values) (int, error) {
	s := strings.TrimSpace(q.Get("year"))
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("year %q is not an integer: %w", s, ErrBadRequest)
	}
	return year, nil
}

// queryBool reads a boolean parameter with a fallback for absent values.
func queryBool(q url.Values, key string, fallback bool) (bool, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s %q is not a boolean: %w", key, s, ErrBadRequest)
	}
	return v, nil
}

// queryCountries reads repeated country parameters. Names may contain commas
// so values are never split. Blanks and duplicates are dropped; order is kept.
// The second result reports whether the parameter was present at all.
func queryCountries(q url.Values) ([]string, bool) {
	raw, ok := q["country"]
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		c := strings.TrimSpace(v)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, true
}

// requiredParam reads a non-blank parameter.
func requiredParam(q url.Values, key string) (string, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return "", fmt.Errorf("missing %s: %w", key, ErrBadRequest)
	}
	return s, nil
}
