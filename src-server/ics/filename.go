package ics

import "strings"

// ContentType is the MIME type for served .ics downloads.
const ContentType = "text/calendar;charset=utf-8"

// EventFilename derives the download name for a single event,
// whitespace runs collapsed to underscores.
func EventFilename(title string) string {
	name := strings.Join(strings.Fields(title), "_")
	if name == "" {
		name = "Event"
	}
	return name + ".ics"
}
