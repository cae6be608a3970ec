package readmodel

import "net/url"

// FilterActive reports whether any non-page parameter carries a value.
func FilterActive(params url.Values) bool {
	for key, values := range params {
		if key == "page" {
			continue
		}
		for _, value := range values {
			if value != "" {
				return true
			}
		}
	}
	return false
}

// FilterQuerystring re-encodes the non-page parameters for pagination
// links, prefixed with "&" so it can be appended after "?page=N".
func FilterQuerystring(params url.Values) string {
	filtered := url.Values{}
	for key, values := range params {
		if key == "page" {
			continue
		}
		for _, value := range values {
			if value != "" {
				filtered.Add(key, value)
			}
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	return "&" + filtered.Encode()
}
