// Package forms validates the string properties of register and login
// requests. Every failing rule is reported, in rule order, so clients get
// the complete list of problems in one response.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MsgEmail          = "email must be an email"
	MsgPasswordPolicy = "The password must have a Uppercase, lowercase letter and a number"
	MsgPasswordMax    = "password must be shorter than or equal to 50 characters"
	MsgPasswordMin    = "password must be longer than or equal to 6 characters"
	MsgFullNameMin    = "fullName must be longer than or equal to 1 characters"
)

type check struct {
	rules   []validation.Rule
	message string
}

func must(message string, rules ...validation.Rule) check {
	return check{rules: rules, message: message}
}

// Field is a string property of a request. A property that is absent or not
// a string fails every check and is reported as not a string.
type Field struct {
	name   string
	checks []check
	value  *string
}

func (f *Field) Name() string {
	return f.name
}

// String returns the bound value, or "" when the property was not a string.
func (f *Field) String() string {
	if f.value == nil {
		return ""
	}
	return *f.value
}

func (f *Field) messages() []string {
	var out []string
	for _, c := range f.checks {
		if f.value == nil || validation.Validate(*f.value, c.rules...) != nil {
			out = append(out, c.message)
		}
	}
	if f.value == nil {
		out = append(out, f.name+" must be a string")
	}
	return out
}

func Email() *Field {
	return &Field{name: "email", checks: []check{
		must(MsgEmail, validation.Required, is.Email),
	}}
}

func Password() *Field {
	return &Field{name: "password", checks: []check{
		must(MsgPasswordPolicy, validation.By(PasswordPolicy)),
		must(MsgPasswordMax, validation.RuneLength(0, 50)),
		must(MsgPasswordMin, validation.Required, validation.RuneLength(6, 0)),
	}}
}

func FullName() *Field {
	return &Field{name: "fullName", checks: []check{
		must(MsgFullNameMin, validation.Required),
	}}
}

// Bind assigns values to fields and validates them. Properties not named by
// any field are rejected first, sorted by name, followed by the failed
// checks of each field in order. The result is a *common.ValidationError.
func Bind(values map[string]any, fields ...*Field) error {
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.name] = struct{}{}
	}

	messages := unknownProperties(values, func(k string) bool {
		_, ok := known[k]
		return ok
	})

	for _, f := range fields {
		f.value = nil
		if s, ok := values[f.name].(string); ok {
			f.value = &s
		}
		messages = append(messages, f.messages()...)
	}

	if len(messages) > 0 {
		return &common.ValidationError{Messages: messages}
	}
	return nil
}

func unknownProperties(values map[string]any, known func(string) bool) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if !known(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("property %s should not exist", k))
	}
	return out
}

// PasswordPolicy requires an uppercase letter, a lowercase letter and a
// digit or symbol. Only the last line of the value is considered, starting
// at its first character other than '.'. Characters before the last line
// break cannot satisfy the policy.
func PasswordPolicy(value interface{}) error {
	s, _ := value.(string)
	start := 0
	for i, r := range s {
		switch r {
		case '\n', '\r', '\u2028', '\u2029':
			start = i + utf8.RuneLen(r)
		}
	}
	if satisfiesPolicy(strings.TrimLeft(s[start:], ".")) {
		return nil
	}
	return errors.New(MsgPasswordPolicy)
}

func satisfiesPolicy(s string) bool {
	var upper, lower, digitOrSymbol bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r == '_':
		default:
			digitOrSymbol = true
		}
	}
	return upper && lower && digitOrSymbol
}
