package route

import "strconv"

// the web client's accent palette
var clubColors = []string{
	"#FF5252", "#FF4081", "#E040FB", "#7C4DFF",
	"#536DFE", "#448AFF", "#40C4FF", "#18FFFF",
	"#64FFDA", "#69F0AE", "#B2FF59", "#EEFF41",
}

// ClubColor deterministically picks a display color from the club id so
// a club keeps its color across sessions and devices.
func ClubColor(clubID string) string {
	if clubID == "" {
		return clubColors[0]
	}
	// club ids are usually hex-ish; fall back to byte summing when not
	if n, err := strconv.ParseUint(last8Hex(clubID), 16, 64); err == nil {
		return clubColors[int(n%uint64(len(clubColors)))]
	}
	sum := 0
	for _, b := range []byte(clubID) {
		sum += int(b)
	}
	return clubColors[sum%len(clubColors)]
}

func last8Hex(s string) string {
	if len(s) > 8 {
		return s[len(s)-8:]
	}
	return s
}
