// The `ics` package serializes calendar events into an iCalendar
// (RFC 5545) payload for download.
//
// # Notes:
//   - This is write-only. Feed input arrives as JSON, so there is no
//     parser side.
//   - Timestamps are emitted as `YYYYMMDDTHHMMSS` in the event's own
//     location with no `Z` suffix. Downstream clients treat the values as
//     floating local time; this mirrors what the web client always
//     produced and changing it would shift every already-subscribed
//     calendar.
//   - SUMMARY, DESCRIPTION and LOCATION values are written verbatim,
//     without the RFC 5545 escaping of commas, semicolons and newlines.
//     The web client never escaped them either, so the output stays
//     byte-compatible with existing subscriptions.
package ics

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"clubhub/src-server/calendar"
)

const (
	// Appended to a point-in-time event's start to derive DTEND.
	DefaultEventDuration = time.Hour

	defaultProdID = "-//University Clubs//Calendar App//EN"
	defaultDomain = "universityclubs.com"
)

// Encoder builds iCalendar payloads. The zero value is usable; Clock
// and Rand exist so tests can pin DTSTAMP and UID generation.
type Encoder struct {
	ProdID string
	Domain string
	Clock  calendar.Clock

	mu   sync.Mutex
	Rand *rand.Rand
}

func NewEncoder() *Encoder {
	return &Encoder{
		ProdID: defaultProdID,
		Domain: defaultDomain,
		Clock:  time.Now,
	}
}

// Encode serializes the events into one VCALENDAR payload, lines joined
// with CRLF. It never fails on events that passed Validate.
func (enc *Encoder) Encode(events []calendar.Event) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"CALSCALE:GREGORIAN",
		"PRODID:" + enc.prodID(),
		"METHOD:PUBLISH",
	}
	for _, e := range events {
		lines = append(lines, enc.eventLines(e)...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

func (enc *Encoder) eventLines(e calendar.Event) []string {
	end := e.End
	if end.IsZero() {
		end = e.Start.Add(DefaultEventDuration)
	}
	description := e.Description
	if description == "" {
		description = e.ClubName + " event at " + e.Location
	}
	return []string{
		"BEGIN:VEVENT",
		"UID:" + enc.newUID(),
		"DTSTAMP:" + FormatDate(enc.now()),
		"DTSTART:" + FormatDate(e.Start),
		"DTEND:" + FormatDate(end),
		"SUMMARY:" + e.Title,
		"DESCRIPTION:" + description,
		"LOCATION:" + e.Location,
		"END:VEVENT",
	}
}

// FormatDate renders an iCalendar date-time value, `YYYYMMDDTHHMMSS`,
// local time, no suffix.
func FormatDate(t time.Time) string {
	return t.Format("20060102T150405")
}

func (enc *Encoder) prodID() string {
	if enc.ProdID == "" {
		return defaultProdID
	}
	return enc.ProdID
}

func (enc *Encoder) now() time.Time {
	if enc.Clock == nil {
		return time.Now()
	}
	return enc.Clock()
}

// Calendar clients dedupe on UID, so each one must be unique per
// generated file: two random base-36 fragments plus a domain suffix.
func (enc *Encoder) newUID() string {
	domain := enc.Domain
	if domain == "" {
		domain = defaultDomain
	}
	return "event_" + enc.fragment() + enc.fragment() + "@" + domain
}

func (enc *Encoder) fragment() string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	enc.mu.Lock()
	defer enc.mu.Unlock()
	b := make([]byte, 9)
	for i := range b {
		if enc.Rand != nil {
			b[i] = digits[enc.Rand.Intn(len(digits))]
		} else {
			b[i] = digits[rand.Intn(len(digits))]
		}
	}
	return string(b)
}
