package calendar

import "time"

// How many events a day cell shows before collapsing into a "+N more"
// count.
const maxVisibleEvents = 2

type ViewMode string

const (
	ViewModeMonth = ViewMode("month")
	ViewModeWeek  = ViewMode("week")
	ViewModeDay   = ViewMode("day")
)

// One cell of a calendar grid. A zero Day with a zero Date marks a
// padding cell before the 1st of the month. MultiDay events render
// before SingleDay ones; Visible holds at most maxVisibleEvents of them
// in that order, More counts the rest.
type DayCell struct {
	Day       int       `json:"day"`
	Date      time.Time `json:"date"`
	Events    []Event   `json:"events"`
	MultiDay  []Event   `json:"multiDay"`
	SingleDay []Event   `json:"singleDay"`
	Visible   []Event   `json:"visible"`
	More      int       `json:"more"`
	Today     bool      `json:"today"`
}

func newDayCell(date time.Time, events []Event, clock Clock) DayCell {
	cell := DayCell{
		Day:    date.Day(),
		Date:   dateOnly(date),
		Events: make([]Event, 0),
		Today:  sameDay(date, clock()),
	}
	for _, e := range events {
		if !VisibleOn(date, e) {
			continue
		}
		cell.Events = append(cell.Events, e)
		if IsMultiDay(e) {
			cell.MultiDay = append(cell.MultiDay, e)
		} else {
			cell.SingleDay = append(cell.SingleDay, e)
		}
	}
	cell.Visible = append(cell.Visible, cell.MultiDay...)
	cell.Visible = append(cell.Visible, cell.SingleDay...)
	if len(cell.Visible) > maxVisibleEvents {
		cell.More = len(cell.Visible) - maxVisibleEvents
		cell.Visible = cell.Visible[:maxVisibleEvents]
	}
	return cell
}

// MonthGrid builds the 7-column month grid for the month containing
// active. Leading padding cells align the 1st of the month under its
// weekday column (Sunday = 0); there is no trailing padding.
func MonthGrid(active time.Time, events []Event, clock Clock) []DayCell {
	year, month := active.Year(), active.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, active.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]DayCell, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, DayCell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, active.Location())
		cells = append(cells, newDayCell(date, events, clock))
	}
	return cells
}

// WeekGrid builds exactly 7 cells starting from the Sunday of the week
// containing active.
func WeekGrid(active time.Time, events []Event, clock Clock) []DayCell {
	sunday := dateOnly(active).AddDate(0, 0, -int(active.Weekday()))
	cells := make([]DayCell, 0, 7)
	for i := 0; i < 7; i++ {
		cells = append(cells, newDayCell(sunday.AddDate(0, 0, i), events, clock))
	}
	return cells
}

// DayGrid is the single cell for active's date.
func DayGrid(active time.Time, events []Event, clock Clock) []DayCell {
	return []DayCell{newDayCell(active, events, clock)}
}

// WeekDays lists the 7 dates of the week containing active, starting
// from Sunday.
func WeekDays(active time.Time) []time.Time {
	sunday := dateOnly(active).AddDate(0, 0, -int(active.Weekday()))
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, sunday.AddDate(0, 0, i))
	}
	return days
}
