package route_test

import (
	"testing"

	"clubhub/src-server/route"
)

func TestClubColor(t *testing.T) {
	// deterministic: same id, same color
	a := route.ClubColor("507f1f77bcf86cd799439011")
	if a != route.ClubColor("507f1f77bcf86cd799439011") {
		t.Error("color not stable for the same id")
	}

	// non-hex ids still land in the palette
	b := route.ClubColor("chess-club")
	if b != route.ClubColor("chess-club") {
		t.Error("color not stable for non-hex id")
	}

	for _, id := range []string{"", "a", "507f1f77bcf86cd799439011", "chess-club"} {
		color := route.ClubColor(id)
		if len(color) != 7 || color[0] != '#' {
			t.Error("not a palette color", id, color)
		}
	}
}
