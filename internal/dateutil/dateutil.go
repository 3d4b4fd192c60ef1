// Package dateutil provides the date formats used on certificates.
package dateutil

import "time"

// EventDateFormat is the display format for event dates on certificates
// (European day/month/year, matching the certificate editor's preview).
const EventDateFormat = "02/01/2006"

// ISODateFormat is the format for generation dates and fallback
// certificate dates.
const ISODateFormat = "2006-01-02"

// FormatEventDate renders an event date for variable substitution.
// The zero time renders as an empty string so an unset date degrades to
// a blank value instead of a bogus epoch date.
func FormatEventDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(EventDateFormat)
}

// FormatISODate renders a date in ISO form, with the same zero-time rule.
func FormatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ISODateFormat)
}
