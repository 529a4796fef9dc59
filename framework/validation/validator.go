package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Err joins every message into one error, ordered by field, or returns nil
// when there are none.
func (e *Errors) Err() error {
	if !e.Has() {
		return nil
	}
	fields := make([]string, 0, len(e.Bag))
	for field := range e.Bag {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var errs []error
	for _, field := range fields {
		for _, msg := range e.Bag[field] {
			errs = append(errs, errors.New(msg))
		}
	}
	return errors.Join(errs...)
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"name": "required|identifier", "lifecycle": "nullable|in:singleton,transient"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.validate()
		v.ran = true
	}
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// Validate runs the rules and returns the joined error, if any.
func (v *Validator) Validate() error {
	v.Fails()
	return v.errors.Err()
}

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, ruleStr := range v.rules {
		value := v.data[field]
		rules := strings.Split(ruleStr, "|")

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// Parse rule name and optional parameter: max:3 → name=max, param=3
			name, param, _ := strings.Cut(rule, ":")

			if !v.applyRule(field, value, name, param) {
				break // stop on first failure
			}
		}
	}
}

var (
	alphaDashPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// applyRule returns true if the rule passes.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "required_without":
		// Required unless the other field is present.
		if strings.TrimSpace(v.data[param]) == "" && strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required when %s is not present.", field, param))
			return false
		}

	case "prohibited_with":
		if strings.TrimSpace(v.data[param]) != "" && strings.TrimSpace(value) != "" {
			v.errors.add(field, fmt.Sprintf("The %s field is prohibited when %s is present.", field, param))
			return false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be an integer.", field))
			return false
		}

	case "boolean":
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
		default:
			v.errors.add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(value)) {
				return true
			}
		}
		v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
		return false

	case "not_in":
		for _, d := range strings.Split(param, ",") {
			if strings.TrimSpace(d) == value {
				v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
				return false
			}
		}

	case "alpha_dash":
		if !alphaDashPattern.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field))
			return false
		}

	case "identifier":
		// Module and tag names: no blanks, commas or parentheses.
		if strings.IndexFunc(value, func(r rune) bool {
			return unicode.IsSpace(r) || r == ',' || r == '(' || r == ')'
		}) >= 0 {
			v.errors.add(field, fmt.Sprintf("The %s may not contain spaces, commas or parentheses.", field))
			return false
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s format is invalid.", field))
			return false
		}

	case "nullable":
		// Skip remaining rules when the field is empty.
		if value == "" {
			return false
		}
	}

	return true
}
