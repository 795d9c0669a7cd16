// Package validate provides Laravel-style struct-tag validation.
//
// Rules are comma-separated in the `validate` tag:
//
//	required            field must be present (nil pointers, "" and empty slices fail)
//	nullable            if empty, skip the remaining rules for this field
//	email, url          format checks
//	boolean, date       value parses as bool / date
//	numeric, integer    value parses as a number / whole number
//	alpha_dash          letters, digits, hyphens, underscores
//	min=N, max=N        numbers: value bounds | strings: rune length | slices: length
//	size=N              strings: exact rune length
//	gt, gte, lt, lte    numeric comparisons
//	between=a,b         inclusive numeric range or string length
//	in=a,b,c            value must be one of the listed items
//	not_in=a,b,c        value must not be one of the listed items
//	regex=pattern       value must match (avoid commas in pattern)
//	confirmed           a sibling <field>_confirmation must hold the same value
//	before=X, after=X   date comparisons; X is a date or a sibling field name
//	after_or_equal=X    as after, but equal dates pass
//	dive                validate each element of a slice of structs; keys are
//	                    reported as "items.0.quantity"
//
// Numeric rules understand int/uint/float kinds and any fmt.Stringer whose
// String() is a number, such as decimal.Decimal.
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Struct validates every exported field of v that carries a `validate` tag.
// It returns field name → first failing message; an empty map means valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	walk(rv, "", errs)
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func walk(rv reflect.Value, prefix string, errs map[string]string) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := prefix + jsonFieldName(sf)
		value := rv.Field(i)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		failed := false
		for _, rule := range rules {
			if rule == "nullable" || rule == "dive" {
				continue
			}
			if msg := applyRule(rule, name, value, rv); msg != "" {
				errs[name] = msg
				failed = true
				break
			}
		}

		if !failed && hasRule(rules, "dive") {
			dive(value, name, errs)
		}
	}
}

func dive(v reflect.Value, name string, errs map[string]string) {
	v = indirect(v)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return
	}
	for i := 0; i < v.Len(); i++ {
		el := indirect(v.Index(i))
		if el.Kind() == reflect.Struct {
			walk(el, fmt.Sprintf("%s.%d.", name, i), errs)
		}
	}
}

// ─── Rules ───────────────────────────────────────────────────────────────────

// check holds everything a rule needs to judge one field.
type check struct {
	field  string
	param  string
	v      reflect.Value
	raw    string
	parent reflect.Value
}

type ruleFunc func(c check) string

var ruleSet map[string]ruleFunc

func init() {
	ruleSet = map[string]ruleFunc{
		"required": func(c check) string {
			if isEmpty(c.v) {
				return fmt.Sprintf("The %s field is required.", c.field)
			}
			return ""
		},
		"email": func(c check) string {
			if !emailRE.MatchString(c.raw) {
				return fmt.Sprintf("The %s must be a valid email address.", c.field)
			}
			return ""
		},
		"url": func(c check) string {
			u, err := url.ParseRequestURI(c.raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return fmt.Sprintf("The %s must be a valid URL.", c.field)
			}
			return ""
		},
		"boolean": func(c check) string {
			if indirect(c.v).Kind() == reflect.Bool {
				return ""
			}
			if _, err := strconv.ParseBool(c.raw); err != nil {
				return fmt.Sprintf("The %s field must be true or false.", c.field)
			}
			return ""
		},
		"date": func(c check) string {
			if _, err := parseDate(c.raw); err != nil {
				return fmt.Sprintf("The %s is not a valid date.", c.field)
			}
			return ""
		},
		"numeric": func(c check) string {
			if _, ok := number(c.v); !ok {
				return fmt.Sprintf("The %s field must be a number.", c.field)
			}
			return ""
		},
		"integer": func(c check) string {
			if _, err := strconv.ParseInt(c.raw, 10, 64); err != nil {
				return fmt.Sprintf("The %s field must be an integer.", c.field)
			}
			return ""
		},
		"alpha_dash": func(c check) string {
			for _, r := range c.raw {
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
					return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", c.field)
				}
			}
			return ""
		},
		"min": func(c check) string {
			n := parseFloat(c.param)
			switch measure(c.v) {
			case measureNumber:
				if f, _ := number(c.v); f < n {
					return fmt.Sprintf("The %s must be at least %s.", c.field, c.param)
				}
			case measureItems:
				if float64(indirect(c.v).Len()) < n {
					return fmt.Sprintf("The %s must have at least %s items.", c.field, c.param)
				}
			default:
				if float64(len([]rune(c.raw))) < n {
					return fmt.Sprintf("The %s must be at least %s characters.", c.field, c.param)
				}
			}
			return ""
		},
		"max": func(c check) string {
			n := parseFloat(c.param)
			switch measure(c.v) {
			case measureNumber:
				if f, _ := number(c.v); f > n {
					return fmt.Sprintf("The %s must not be greater than %s.", c.field, c.param)
				}
			case measureItems:
				if float64(indirect(c.v).Len()) > n {
					return fmt.Sprintf("The %s must not have more than %s items.", c.field, c.param)
				}
			default:
				if float64(len([]rune(c.raw))) > n {
					return fmt.Sprintf("The %s must not be greater than %s characters.", c.field, c.param)
				}
			}
			return ""
		},
		"size": func(c check) string {
			if float64(len([]rune(c.raw))) != parseFloat(c.param) {
				return fmt.Sprintf("The %s must be %s characters.", c.field, c.param)
			}
			return ""
		},
		"gt":  compare(func(f, n float64) bool { return f > n }, "greater than"),
		"gte": compare(func(f, n float64) bool { return f >= n }, "greater than or equal to"),
		"lt":  compare(func(f, n float64) bool { return f < n }, "less than"),
		"lte": compare(func(f, n float64) bool { return f <= n }, "less than or equal to"),
		"between": func(c check) string {
			lo, hi, ok := strings.Cut(c.param, ",")
			if !ok {
				return ""
			}
			l, h := parseFloat(lo), parseFloat(hi)
			if f, isNum := number(c.v); isNum && measure(c.v) == measureNumber {
				if f < l || f > h {
					return fmt.Sprintf("The %s must be between %s and %s.", c.field, lo, hi)
				}
				return ""
			}
			if n := float64(len([]rune(c.raw))); n < l || n > h {
				return fmt.Sprintf("The %s must be between %s and %s characters.", c.field, lo, hi)
			}
			return ""
		},
		"in": func(c check) string {
			for _, a := range strings.Split(c.param, ",") {
				if c.raw == strings.TrimSpace(a) {
					return ""
				}
			}
			return fmt.Sprintf("The selected %s is invalid.", c.field)
		},
		"not_in": func(c check) string {
			for _, a := range strings.Split(c.param, ",") {
				if c.raw == strings.TrimSpace(a) {
					return fmt.Sprintf("The selected %s is invalid.", c.field)
				}
			}
			return ""
		},
		"regex": func(c check) string {
			re, err := regexp.Compile(c.param)
			if err != nil {
				return fmt.Sprintf("The %s has an invalid validation pattern.", c.field)
			}
			if !re.MatchString(c.raw) {
				return fmt.Sprintf("The %s format is invalid.", c.field)
			}
			return ""
		},
		"confirmed": func(c check) string {
			other, ok := sibling(c.parent, lastSegment(c.field)+"_confirmation")
			if !ok || stringOf(other) != c.raw {
				return fmt.Sprintf("The %s confirmation does not match.", c.field)
			}
			return ""
		},
		"before":         dateCompare(func(a, b time.Time) bool { return a.Before(b) }, "before"),
		"after":          dateCompare(func(a, b time.Time) bool { return a.After(b) }, "after"),
		"after_or_equal": dateCompare(func(a, b time.Time) bool { return !a.Before(b) }, "after or equal to"),
	}
}

func applyRule(rule, field string, v, parent reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	fn, ok := ruleSet[key]
	if !ok {
		return ""
	}
	return fn(check{field: field, param: param, v: v, raw: stringOf(v), parent: parent})
}

func compare(ok func(f, n float64) bool, phrase string) ruleFunc {
	return func(c check) string {
		f, isNum := number(c.v)
		if !isNum || !ok(f, parseFloat(c.param)) {
			return fmt.Sprintf("The %s must be %s %s.", c.field, phrase, c.param)
		}
		return ""
	}
}

// dateCompare resolves the parameter as a sibling field first, then as a
// literal date.
func dateCompare(ok func(a, b time.Time) bool, phrase string) ruleFunc {
	return func(c check) string {
		ref := c.param
		if other, found := sibling(c.parent, c.param); found {
			if isEmpty(other) {
				return ""
			}
			ref = stringOf(other)
		}
		t1, err1 := parseDate(c.raw)
		t2, err2 := parseDate(ref)
		if err1 != nil || err2 != nil || !ok(t1, t2) {
			return fmt.Sprintf("The %s must be a date %s %s.", c.field, phrase, c.param)
		}
		return ""
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "02/01/2006", "Jan 2, 2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date", s)
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// stringOf renders v without the pointer: *string "a" → "a", nil → "".
func stringOf(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() || ((v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil()) {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

type measureKind int

const (
	measureText measureKind = iota
	measureNumber
	measureItems
)

func measure(v reflect.Value) measureKind {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return measureNumber
	case reflect.Slice, reflect.Array, reflect.Map:
		return measureItems
	case reflect.Struct:
		if _, ok := v.Interface().(fmt.Stringer); ok {
			return measureNumber
		}
	}
	return measureText
}

// number returns v as float64 when it holds a numeric kind or a Stringer
// whose text is numeric.
func number(v reflect.Value) (float64, bool) {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Invalid:
		return 0, false
	}
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return 0, false
	}
	f, err := strconv.ParseFloat(stringOf(v), 64)
	return f, err == nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func lastSegment(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[i+1:]
	}
	return field
}

func sibling(parent reflect.Value, jsonName string) (reflect.Value, bool) {
	if parent.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == jsonName {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// multiValue rules take a comma-separated parameter.
var multiValue = []string{"in=", "not_in=", "between="}

// splitRules splits a tag on commas while keeping the parameters of
// multi-value rules together:
// "required,in=cash,card,max=10" → ["required", "in=cash,card", "max=10"].
func splitRules(tag string) []string {
	var rules []string
	var cur strings.Builder
	inParam := false

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if inParam && !startsRule(part) {
			cur.WriteByte(',')
			cur.WriteString(part)
			continue
		}
		if cur.Len() > 0 {
			rules = append(rules, cur.String())
			cur.Reset()
		}
		cur.WriteString(part)
		inParam = false
		for _, p := range multiValue {
			if strings.HasPrefix(part, p) {
				inParam = true
			}
		}
	}
	if cur.Len() > 0 {
		rules = append(rules, cur.String())
	}
	return rules
}

func startsRule(s string) bool {
	key, _, _ := strings.Cut(s, "=")
	if key == "nullable" || key == "dive" {
		return true
	}
	_, ok := ruleSet[key]
	return ok
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
