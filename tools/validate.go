package tools

import (
	"strconv"
	"strings"
	"time"
)

// minSearchLen is the shortest search term the upstream accepts.
const minSearchLen = 3

// maxWindow caps the last/next fixture window the upstream accepts.
const maxWindow = 99

// checkSearch validates a free-text search term when present.
func checkSearch(param, value string) error {
	if value == "" {
		return nil
	}
	if len(strings.TrimSpace(value)) < minSearchLen {
		return invalid(param, "must be at least 3 characters")
	}
	return nil
}

// checkDate validates a YYYY-MM-DD date when present.
func checkDate(param, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return invalid(param, "must be in YYYY-MM-DD format")
	}
	return nil
}

// checkWindow validates a last/next fixture count when present.
func checkWindow(param string, value int) error {
	if value == 0 {
		return nil
	}
	if value < 1 || value > maxWindow {
		return invalid(param, "must be between 1 and 99")
	}
	return nil
}

// checkH2H validates a "teamID-teamID" pair.
func checkH2H(value string) error {
	if value == "" {
		return invalid("h2h", "is required")
	}
	left, right, found := strings.Cut(value, "-")
	if !found {
		return invalid("h2h", `must be in "teamID-teamID" format`)
	}
	for _, side := range []string{left, right} {
		if n, err := strconv.Atoi(side); err != nil || n <= 0 {
			return invalid("h2h", "both sides must be positive team IDs")
		}
	}
	return nil
}

// params accumulates upstream query parameters, skipping zero values.
type params map[string]string

func (p params) setInt(key string, v int) {
	if v != 0 {
		p[key] = strconv.Itoa(v)
	}
}

func (p params) setString(key, v string) {
	if v != "" {
		p[key] = v
	}
}

func (p params) setBool(key string, v bool) {
	if v {
		p[key] = "true"
	}
}
