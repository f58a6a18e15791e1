// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package filters narrows listing rows with --filter expressions such as
// "kind=table,size>1024".
package filters

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

// DelimEnv overrides the "," between filter expressions.
const DelimEnv = "LCIOCHECKS_FILTER_DELIM"

// filterRegex splits an expression into key, operand and target. Operands are
// one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification. Malformed expressions are
// logged and dropped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok {
		delim = d
	}

	//nolint:prealloc
	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil {
			log.Error("invalid filter: " + expr)
			continue
		}
		op, negate := strings.CutPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: op,
			Target:  parts[3],
		})
	}
	return filters
}

// FilterRows returns the rows matching every filter of spec, in order. An
// empty spec keeps all rows.
func FilterRows(rows []map[string]interface{}, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return slices.Clone(rows)
	}

	// Unknown keys are reported once per spec rather than once per row.
	warned := map[string]bool{}

	//nolint:prealloc
	var out []map[string]interface{}
rows:
	for _, row := range rows {
		for _, f := range filters {
			value, found := row[f.Key]
			if !found {
				if !warned[f.Key] {
					warned[f.Key] = true
					log.Errorf("filter key not found: %s", f.Key)
					fmt.Fprintf(os.Stderr, "warning: filter key not found: %s\n", f.Key)
				}
				continue
			}
			if !f.Match(value) {
				continue rows
			}
		}
		out = append(out, row)
	}
	return out
}

// Match reports whether value passes the filter. A nil value never does.
// Strings, bools and times compare as text, numbers numerically, and slices
// or maps support membership with '@'.
func (f Filter) Match(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return f.matchString(v)
	case bool:
		return f.matchString(strconv.FormatBool(v))
	case time.Time:
		return f.matchString(v.Format(time.RFC3339))
	}
	if n, ok := number(value); ok {
		return f.matchNumber(n)
	}
	if f.Operand == "@" {
		return f.matchMember(value)
	}
	log.Errorf("cannot filter %s on a %T", f.Key, value)
	return false
}

// holds applies the negation to a raw comparison result.
func (f Filter) holds(ok bool) bool {
	return ok != f.Negate
}

func (f Filter) matchString(value string) bool {
	switch f.Operand {
	case "=":
		return f.holds(value == f.Target)
	case "~":
		return f.holds(strings.EqualFold(value, f.Target))
	case "^":
		return f.holds(strings.HasPrefix(value, f.Target))
	case ">":
		return f.holds(value > f.Target)
	case "<":
		return f.holds(value < f.Target)
	case "@":
		return f.holds(strings.Contains(value, f.Target))
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Error("invalid regex: " + f.Target)
			return false
		}
		return f.holds(re.MatchString(value))
	}
	log.Error("unsupported filtering operand: " + f.Operand)
	return false
}

func (f Filter) matchNumber(value float64) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + f.Target)
		return false
	}
	switch f.Operand {
	case "=":
		return f.holds(value == target)
	case ">":
		return f.holds(value > target)
	case "<":
		return f.holds(value < target)
	}
	log.Error("unsupported numeric operand: " + f.Operand)
	return false
}

func (f Filter) matchMember(value interface{}) bool {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if item == f.Target {
				return f.holds(true)
			}
		}
		return f.holds(false)
	case map[string]any:
		_, found := v[f.Target]
		return f.holds(found)
	}
	log.Errorf("unsupported type for contains filtering: %T", value)
	return false
}

// number widens any integer or float kind to float64.
func number(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
