package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// ValidatorKind names one member of the closed set of validation rules a
// question may reference. Keeping the set closed keeps question
// definitions pure data.
type ValidatorKind string

const (
	ValidatorLengthRange  ValidatorKind = "length-range"
	ValidatorCharset      ValidatorKind = "regex-charset"
	ValidatorNotReserved  ValidatorKind = "not-in-reserved-set"
	ValidatorNumericRange ValidatorKind = "numeric-range"
)

// Validator is one declarative validation rule. Which fields are
// meaningful depends on Kind.
type Validator struct {
	Kind     ValidatorKind
	Min      int
	Max      int
	Pattern  *regexp.Regexp
	Reserved []string
}

// Check reports whether the (trimmed, option-normalized) answer passes
// this rule
func (v Validator) Check(answer string) bool {
	switch v.Kind {
	case ValidatorLengthRange:
		return len(answer) >= v.Min && len(answer) <= v.Max
	case ValidatorCharset:
		return v.Pattern != nil && v.Pattern.MatchString(answer)
	case ValidatorNotReserved:
		lower := strings.ToLower(answer)
		for _, reserved := range v.Reserved {
			if lower == reserved {
				return false
			}
		}
		return true
	case ValidatorNumericRange:
		n, err := strconv.Atoi(answer)
		if err != nil {
			return false
		}
		return n >= v.Min && n <= v.Max
	}
	return false
}

// TransformKind names the conversion applied to a validated answer to
// produce the stored value's final type
type TransformKind string

const (
	TransformNone      TransformKind = ""
	TransformInt       TransformKind = "int"
	TransformYesNoBool TransformKind = "boolean-yes-no"
)

// Question is one static schema entry describing a piece of
// configuration to collect. Order within a resource type's list is
// significant and fixed.
type Question struct {
	Key        string
	Prompt     string
	Options    []string
	Validators []Validator
	Error      string
	Default    string
	Transform  TransformKind
}

// HasDefault reports whether empty input should substitute a default
func (q Question) HasDefault() bool {
	return q.Default != ""
}

// ValidateAnswer applies a question definition to raw input, producing
// either an error message or the normalized typed value. The function is
// pure: identical inputs always yield identical results.
//
// Resolution order: trim and default substitution, then numeric 1-based
// index against the option list (out-of-range indexes fall through to
// literal matching), then case-insensitive literal match normalized to
// the option's canonical casing, then the named validators, then the
// transform.
func ValidateAnswer(q Question, raw string) (bool, string, interface{}) {
	answer := strings.TrimSpace(raw)

	if answer == "" && q.HasDefault() {
		answer = q.Default
	}

	if len(q.Options) > 0 {
		if idx, err := strconv.Atoi(answer); err == nil {
			if idx >= 1 && idx <= len(q.Options) {
				answer = q.Options[idx-1]
			}
		}
		matched := ""
		for _, opt := range q.Options {
			if strings.EqualFold(opt, answer) {
				matched = opt
				break
			}
		}
		if matched == "" {
			return false, "Please select from: " + strings.Join(q.Options, ", "), nil
		}
		answer = matched
	}

	for _, v := range q.Validators {
		if !v.Check(answer) {
			msg := q.Error
			if msg == "" {
				msg = "Invalid input."
			}
			return false, msg, nil
		}
	}

	switch q.Transform {
	case TransformInt:
		n, err := strconv.Atoi(answer)
		if err != nil {
			msg := q.Error
			if msg == "" {
				msg = "Invalid input."
			}
			return false, msg, nil
		}
		return true, "", n
	case TransformYesNoBool:
		return true, "", strings.EqualFold(answer, "yes")
	}

	return true, "", answer
}

// FormatOptions renders an option list as a numbered selection menu
func FormatOptions(options []string) string {
	var b strings.Builder
	for i, opt := range options {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  " + strconv.Itoa(i+1) + ". " + opt)
	}
	return b.String()
}
