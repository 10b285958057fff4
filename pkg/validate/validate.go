// Package validate checks request payloads and models against rules in a
// `validate` struct tag and reports one message per failing field, keyed
// by the field's JSON name.
//
//	SKU    string          `json:"sku"    validate:"required,max=64"`
//	Price  decimal.Decimal `json:"price"  validate:"gt=0"`
//	Status string          `json:"status" validate:"required,in=RECEIVED|IN_PROGRESS|SHIPPED"`
//
// Rules: required, nullable, email, url, min, max, gt, gte, lte, in, dp.
// min and max measure runes for text and value for numbers. Numeric rules
// accept decimal.Decimal through its Float64 method; dp=N limits a
// decimal.Decimal to N fractional digits.
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// field is the value under test plus what the rules need to describe it.
type field struct {
	name  string
	value reflect.Value
}

func (f field) text() string {
	if f.value.Kind() == reflect.String {
		return f.value.String()
	}
	if s, ok := f.value.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(f.value.Interface())
}

func (f field) number() (float64, bool) {
	v := f.value
	switch {
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	case v.CanFloat():
		return v.Float(), true
	}
	if fl, ok := v.Interface().(interface{ Float64() (float64, bool) }); ok {
		n, _ := fl.Float64()
		return n, true
	}
	return 0, false
}

func (f field) empty() bool {
	v := f.value
	if z, ok := v.Interface().(interface{ IsZero() bool }); ok && v.Kind() == reflect.Struct {
		return z.IsZero()
	}
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	if n, ok := f.number(); ok {
		return n == 0
	}
	return false
}

// A rule returns "" when f passes.
type rule func(f field, param string) string

var rules = map[string]rule{
	"required": func(f field, _ string) string {
		if f.empty() {
			return fmt.Sprintf("The %s field is required.", f.name)
		}
		return ""
	},
	"email": func(f field, _ string) string {
		if !emailRE.MatchString(f.text()) {
			return fmt.Sprintf("The %s must be a valid email address.", f.name)
		}
		return ""
	},
	"url": func(f field, _ string) string {
		u, err := url.ParseRequestURI(f.text())
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", f.name)
		}
		return ""
	},
	"min": func(f field, p string) string {
		if n, ok := f.number(); ok {
			if n < bound(p) {
				return fmt.Sprintf("The %s must be at least %s.", f.name, p)
			}
		} else if runes(f) < bound(p) {
			return fmt.Sprintf("The %s must be at least %s characters.", f.name, p)
		}
		return ""
	},
	"max": func(f field, p string) string {
		if n, ok := f.number(); ok {
			if n > bound(p) {
				return fmt.Sprintf("The %s must not be greater than %s.", f.name, p)
			}
		} else if runes(f) > bound(p) {
			return fmt.Sprintf("The %s must not exceed %s characters.", f.name, p)
		}
		return ""
	},
	"gt":  compare(func(n, b float64) bool { return n > b }, "greater than"),
	"gte": compare(func(n, b float64) bool { return n >= b }, "greater than or equal to"),
	"lte": compare(func(n, b float64) bool { return n <= b }, "less than or equal to"),
	"dp": func(f field, p string) string {
		d, ok := f.value.Interface().(decimal.Decimal)
		if !ok {
			return ""
		}
		places, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil || d.Equal(d.Round(int32(places))) {
			return ""
		}
		return fmt.Sprintf("The %s must not have more than %s decimal places.", f.name, p)
	},
	"in": func(f field, p string) string {
		got := f.text()
		for _, opt := range strings.Split(p, "|") {
			if got == strings.TrimSpace(opt) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", f.name)
	},
}

func compare(ok func(n, b float64) bool, phrase string) rule {
	return func(f field, p string) string {
		n, _ := f.number()
		if !ok(n, bound(p)) {
			return fmt.Sprintf("The %s must be %s %s.", f.name, phrase, p)
		}
		return ""
	}
}

func runes(f field) float64 { return float64(len([]rune(f.text()))) }

func bound(p string) float64 {
	n, _ := strconv.ParseFloat(strings.TrimSpace(p), 64)
	return n
}

// Struct validates the tagged exported fields of v, a struct or pointer
// to one. The first failing rule per field wins. An empty map means v is
// valid.
func Struct(v interface{}) map[string]string {
	errs := map[string]string{}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, ok := sf.Tag.Lookup("validate")
		if !ok || tag == "" || !sf.IsExported() {
			continue
		}
		f := field{name: jsonName(sf), value: rv.Field(i)}
		if msg := check(f, strings.Split(tag, ",")); msg != "" {
			errs[f.name] = msg
		}
	}
	return errs
}

func check(f field, tags []string) string {
	for _, t := range tags {
		if strings.TrimSpace(t) == "nullable" && f.empty() {
			return ""
		}
	}
	for _, t := range tags {
		name, param, _ := strings.Cut(strings.TrimSpace(t), "=")
		r, known := rules[name]
		if !known {
			continue
		}
		if msg := r(f, param); msg != "" {
			return msg
		}
	}
	return ""
}

// HasErrors reports whether Struct found anything.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(sf.Name[:1]) + sf.Name[1:]
	}
	return name
}
