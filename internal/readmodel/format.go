// Package readmodel shapes domain records into the value structs the page
// templates render: tables, sections, breadcrumbs, pagination windows.
package readmodel

import (
	"fmt"
	"strconv"
	"time"
)

// EmDash is the placeholder for blank or unknown values.
const EmDash = "—"

func FormatText(value string) string {
	if value == "" {
		return EmDash
	}
	return value
}

func FormatDateTime(value *time.Time) string {
	if value == nil {
		return EmDash
	}
	return value.Local().Format("2006-01-02 15:04")
}

func FormatDate(value *time.Time) string {
	if value == nil {
		return EmDash
	}
	return value.Local().Format("2006-01-02")
}

func FormatBool(value *bool) string {
	if value == nil {
		return EmDash
	}
	if *value {
		return "Yes"
	}
	return "No"
}

func FormatInt(value *int) string {
	if value == nil {
		return EmDash
	}
	return strconv.Itoa(*value)
}

func FormatFloat(value *float64) string {
	if value == nil {
		return EmDash
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// FormatLatLong renders a coordinate pair, or the placeholder when either
// half is missing.
func FormatLatLong(lat, long *float64) string {
	if lat == nil || long == nil {
		return EmDash
	}
	return fmt.Sprintf("Lat %s, Long %s", strconv.FormatFloat(*lat, 'f', -1, 64), strconv.FormatFloat(*long, 'f', -1, 64))
}
