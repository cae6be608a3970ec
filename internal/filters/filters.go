// Package filters parses list-page query parameters into domain filter
// structs. Absent or invalid parameters never fail a page; they simply
// add no predicate. A missing filter-set definition, by contrast, is a
// wiring error and fails loudly.
package filters

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Choice is one option in a choice field. An empty value means "no
// constraint".
type Choice struct {
	Value string
	Label string
}

// Field describes one filter form input.
type Field struct {
	Name        string
	Label       string
	Kind        string // "text", "date", "number", "choice", "picker"
	Placeholder string
	Choices     []Choice
}

// Set is the filter form for one list page.
type Set struct {
	Entity string
	Fields []Field
}

// StateChoices derives the choice list for a state field: sorted distinct
// non-empty values with the catch-all entry prepended.
func StateChoices(values []string) []Choice {
	seen := make(map[string]struct{}, len(values))
	distinct := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		distinct = append(distinct, value)
	}
	sort.Strings(distinct)

	choices := make([]Choice, 0, len(distinct)+1)
	choices = append(choices, Choice{Value: "", Label: "All states"})
	for _, value := range distinct {
		choices = append(choices, Choice{Value: value, Label: value})
	}
	return choices
}

func parseDate(raw string) *time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		if value, err := time.Parse(layout, raw); err == nil {
			return &value
		}
	}
	return nil
}

func parseInt(raw string) *int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseUint(raw string) *uint {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	result := uint(value)
	return &result
}

func parseBool(raw string) *bool {
	switch raw {
	case "true", "1", "yes":
		value := true
		return &value
	case "false", "0", "no":
		value := false
		return &value
	}
	return nil
}

// matchChoice returns the raw value only when it is one of the available
// choices.
func matchChoice(raw string, choices []Choice) string {
	for _, choice := range choices {
		if choice.Value != "" && choice.Value == raw {
			return raw
		}
	}
	return ""
}

var sets = map[string]Set{}

func register(set Set) {
	sets[set.Entity] = set
}

// ForEntity returns the filter set for a list page. An unregistered
// entity is a wiring error and panics; every list handler registers its
// set in sets.go, so this can only trip during development.
func ForEntity(entity string) Set {
	set, ok := sets[entity]
	if !ok {
		panic(fmt.Sprintf("filters: no filter set registered for %q", entity))
	}
	return set
}
