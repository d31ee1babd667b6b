// Package validate evaluates the declarative validation rules menus attach
// to user responses. Rules come in pipe-delimited form ("alpha|minLen:4") or
// structured form carrying custom error messages; both parse into the same
// []domain.Rule, and every rule travels with its own message so there is no
// shared error-map state between invocations.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// evaluator checks a response against one rule. It returns the default
// error message when the check fails, empty string otherwise. A non-nil
// error means the rule itself is malformed.
type evaluator func(response, param string) (string, error)

var evaluators = map[string]evaluator{
	"alpha": func(response, _ string) (string, error) {
		for _, r := range response {
			if !unicode.IsLetter(r) {
				return "must contain only letters", nil
			}
		}
		return "", nil
	},
	"alphanum": func(response, _ string) (string, error) {
		for _, r := range response {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return "must contain only letters and digits", nil
			}
		}
		return "", nil
	},
	"numeric": func(response, _ string) (string, error) {
		for _, r := range response {
			if !unicode.IsDigit(r) {
				return "must contain only digits", nil
			}
		}
		return "", nil
	},
	"integer": func(response, _ string) (string, error) {
		if _, err := strconv.Atoi(response); err != nil {
			return "must be a whole number", nil
		}
		return "", nil
	},
	"float": func(response, _ string) (string, error) {
		if _, err := strconv.ParseFloat(response, 64); err != nil {
			return "must be a number", nil
		}
		return "", nil
	},
	"min": func(response, param string) (string, error) {
		bound, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return "", fmt.Errorf("min: invalid bound %q", param)
		}
		v, err := strconv.ParseFloat(response, 64)
		if err != nil || v < bound {
			return "must be at least " + param, nil
		}
		return "", nil
	},
	"max": func(response, param string) (string, error) {
		bound, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return "", fmt.Errorf("max: invalid bound %q", param)
		}
		v, err := strconv.ParseFloat(response, 64)
		if err != nil || v > bound {
			return "must be at most " + param, nil
		}
		return "", nil
	},
	"minLen": func(response, param string) (string, error) {
		n, err := strconv.Atoi(param)
		if err != nil {
			return "", fmt.Errorf("minLen: invalid length %q", param)
		}
		if len([]rune(response)) < n {
			return "must be at least " + param + " characters", nil
		}
		return "", nil
	},
	"maxLen": func(response, param string) (string, error) {
		n, err := strconv.Atoi(param)
		if err != nil {
			return "", fmt.Errorf("maxLen: invalid length %q", param)
		}
		if len([]rune(response)) > n {
			return "must be at most " + param + " characters", nil
		}
		return "", nil
	},
	"regex": func(response, param string) (string, error) {
		re, err := regexp.Compile(param)
		if err != nil {
			return "", fmt.Errorf("regex: invalid pattern %q: %w", param, err)
		}
		if !re.MatchString(response) {
			return "is not in the expected format", nil
		}
		return "", nil
	},
	"tel": func(response, _ string) (string, error) {
		trimmed := strings.TrimPrefix(response, "+")
		if len(trimmed) < 7 || len(trimmed) > 15 {
			return "must be a valid phone number", nil
		}
		for _, r := range trimmed {
			if !unicode.IsDigit(r) {
				return "must be a valid phone number", nil
			}
		}
		return "", nil
	},
}

// KnownRule reports whether name is a supported rule.
func KnownRule(name string) bool {
	_, ok := evaluators[name]
	return ok
}

// RuleNames lists the supported rules, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(evaluators))
	for name := range evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
