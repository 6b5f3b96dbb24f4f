package ics

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"clubhub/src-server/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinnedEncoder() *Encoder {
	enc := NewEncoder()
	enc.Clock = func() time.Time {
		return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	}
	enc.Rand = rand.New(rand.NewSource(1))
	return enc
}

func TestEncode(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		payload := pinnedEncoder().Encode(nil)
		lines := strings.Split(payload, "\r\n")
		assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
		assert.Contains(t, lines, "VERSION:2.0")
		assert.Contains(t, lines, "CALSCALE:GREGORIAN")
		assert.Contains(t, lines, "PRODID:-//University Clubs//Calendar App//EN")
		assert.Contains(t, lines, "METHOD:PUBLISH")
		assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])
	})

	t.Run("event with explicit end", func(t *testing.T) {
		payload := pinnedEncoder().Encode([]calendar.Event{{
			ID:          "e1",
			Title:       "Hackathon Kickoff",
			Start:       time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
			End:         time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC),
			Location:    "Student Center",
			Description: "Bring a laptop",
		}})
		assert.Contains(t, payload, "DTSTART:20240315T140000")
		assert.Contains(t, payload, "DTEND:20240315T173000")
		assert.Contains(t, payload, "SUMMARY:Hackathon Kickoff")
		assert.Contains(t, payload, "DESCRIPTION:Bring a laptop")
		assert.Contains(t, payload, "LOCATION:Student Center")
		assert.Contains(t, payload, "DTSTAMP:20240320T120000")
		// floating local time, never UTC-suffixed
		assert.NotContains(t, payload, "Z\r\n")
	})

	t.Run("missing end defaults to one hour", func(t *testing.T) {
		payload := pinnedEncoder().Encode([]calendar.Event{{
			ID:    "e2",
			Title: "Chess Night",
			Start: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
		}})
		assert.Contains(t, payload, "DTSTART:20240315T140000")
		assert.Contains(t, payload, "DTEND:20240315T150000")
	})

	t.Run("description falls back to club and location", func(t *testing.T) {
		payload := pinnedEncoder().Encode([]calendar.Event{{
			ID:       "e3",
			Title:    "Weekly Meeting",
			Start:    time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
			Location: "Room 101",
			ClubName: "Robotics Club",
		}})
		assert.Contains(t, payload, "DESCRIPTION:Robotics Club event at Room 101")
	})

	t.Run("uid shape and uniqueness", func(t *testing.T) {
		payload := pinnedEncoder().Encode([]calendar.Event{
			{ID: "a", Title: "A", Start: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
			{ID: "b", Title: "B", Start: time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)},
		})
		uidRe := regexp.MustCompile(`UID:event_[0-9a-z]{18}@universityclubs\.com`)
		uids := uidRe.FindAllString(payload, -1)
		require.Len(t, uids, 2)
		assert.NotEqual(t, uids[0], uids[1])
	})

	t.Run("stable apart from uid and dtstamp", func(t *testing.T) {
		events := []calendar.Event{{
			ID:    "e4",
			Title: "Social",
			Start: time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC),
		}}
		strip := func(payload string) []string {
			var out []string
			for _, line := range strings.Split(payload, "\r\n") {
				if strings.HasPrefix(line, "UID:") || strings.HasPrefix(line, "DTSTAMP:") {
					continue
				}
				out = append(out, line)
			}
			return out
		}
		assert.Equal(t,
			strip(pinnedEncoder().Encode(events)),
			strip(pinnedEncoder().Encode(events)))
	})

	t.Run("non utc location keeps wall clock time", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		payload := pinnedEncoder().Encode([]calendar.Event{{
			ID:    "e5",
			Title: "Evening Talk",
			Start: time.Date(2024, 3, 15, 19, 0, 0, 0, loc),
		}})
		assert.Contains(t, payload, "DTSTART:20240315T190000")
	})
}

func TestEventFilename(t *testing.T) {
	assert.Equal(t, "Chess_Night.ics", EventFilename("Chess Night"))
	assert.Equal(t, "Hack_Week_2024.ics", EventFilename("  Hack  Week \t2024 "))
	assert.Equal(t, "Event.ics", EventFilename(""))
	assert.Equal(t, "Event.ics", EventFilename("   "))
}
