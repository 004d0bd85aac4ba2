package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexTime parses JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type FlexTime struct{ t *time.Time }

func (d *FlexTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("use date (YYYY-MM-DD) or RFC3339 datetime, got %q", s)
}

// Ptr returns *time.Time for use in service/domain.
func (d FlexTime) Ptr() *time.Time { return d.t }

// PtrOf unwraps an optional field; nil stays nil.
func PtrOf(d *FlexTime) *time.Time {
	if d == nil {
		return nil
	}
	return d.t
}

// Set reports whether a non-null value was sent.
func (d *FlexTime) Set() bool { return d != nil && d.t != nil }

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
