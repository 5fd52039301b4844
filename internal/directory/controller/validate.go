package controller

import (
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"unicode/utf8"

	e "github.com/gartstein/partners/internal/directory/errors"
)

var phonePattern = regexp.MustCompile(`^[0-9\-+() ]+$`)

const (
	maxURLs        = 20
	maxAttachments = 10
	maxTags        = 20
)

func checkLength(field, v string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(v)
	if n < minLen || n > maxLen {
		return e.Invalid("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

func checkMaxLength(field, v string, maxLen int) error {
	if utf8.RuneCountInString(v) > maxLen {
		return e.Invalid("%s must be at most %d characters", field, maxLen)
	}
	return nil
}

func checkMinLength(field, v string, minLen int) error {
	if utf8.RuneCountInString(v) < minLen {
		return e.Invalid("%s must be at least %d characters", field, minLen)
	}
	return nil
}

func checkSecret(field, v string) error {
	return checkLength(field, v, 4, 50)
}

// checkURL accepts absolute http(s) URLs. Empty values pass unless required.
func checkURL(field, v string, required bool) error {
	if v == "" {
		if required {
			return e.Invalid("%s is required", field)
		}
		return nil
	}
	u, err := url.ParseRequestURI(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return e.Invalid("%s must be a valid URL", field)
	}
	return nil
}

func checkURLs(field string, values []string, maxCount int) error {
	if len(values) > maxCount {
		return e.Invalid("%s must contain at most %d entries", field, maxCount)
	}
	for _, v := range values {
		if err := checkURL(field, v, true); err != nil {
			return err
		}
	}
	return nil
}

func checkPhone(field, v string, required bool) error {
	if v == "" && !required {
		return nil
	}
	if err := checkLength(field, v, 8, 20); err != nil {
		return err
	}
	if !phonePattern.MatchString(v) {
		return e.Invalid("%s may only contain digits, spaces and -+()", field)
	}
	return nil
}

func checkEmail(field, v string) error {
	if v == "" {
		return nil
	}
	if err := checkMaxLength(field, v, 100); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return e.Invalid("%s must be a valid email address", field)
	}
	return nil
}

// checkSubset requires at least minCount values, all taken from allowed.
func checkSubset(field string, values, allowed []string, minCount int) error {
	if len(values) < minCount {
		return e.Invalid("%s requires at least %d value", field, minCount)
	}
	for _, v := range values {
		if !slices.Contains(allowed, v) {
			return e.Invalid("%s contains unknown value %q", field, v)
		}
	}
	return nil
}

func checkTags(values []string) error {
	if len(values) > maxTags {
		return e.Invalid("tags must contain at most %d entries", maxTags)
	}
	for _, v := range values {
		if err := checkLength("tag", v, 1, 30); err != nil {
			return err
		}
	}
	return nil
}

// dedupe returns values without repeats, keeping first occurrences.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
