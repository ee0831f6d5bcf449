// Package grid defines the weekly lattice availability is edited on:
// seven day columns, each split into fixed-width slots across an operating
// window, and the mapping between slots and wall-clock time.
package grid

import "fmt"

const (
	// DefaultSlotMinutes is the slot width used when none is configured.
	DefaultSlotMinutes = 30
	// DefaultDayStart is the default start of the operating window.
	DefaultDayStart = "08:00"
	// DefaultDayEnd is the default end of the operating window.
	DefaultDayEnd = "21:00"
)

// Cell identifies one slot on one day.
type Cell struct {
	Day  Day
	Slot int // index within the operating window, 0 = first slot
}

func (c Cell) String() string {
	return fmt.Sprintf("%s#%d", c.Day.Short(), c.Slot)
}

// WallClock is a cell boundary projected to a day and time of day.
type WallClock struct {
	Day    Day
	Hour   int
	Minute int
}

// Minutes returns minutes since midnight.
func (w WallClock) Minutes() int {
	return w.Hour*60 + w.Minute
}

func (w WallClock) String() string {
	return w.Day.Short() + " " + FormatClock(w.Minutes())
}

// Config holds the grid geometry. Every other package takes it by value.
type Config struct {
	SlotMinutes  int // width of one slot
	StartMinutes int // first minute of the operating window
	EndMinutes   int // end of the operating window (exclusive)
}

// New builds a Config from a slot width and "HH:MM" window bounds.
func New(slotMinutes int, dayStart, dayEnd string) (Config, error) {
	start, err := ParseClock(dayStart)
	if err != nil {
		return Config{}, fmt.Errorf("day start: %w", err)
	}
	end, err := ParseClock(dayEnd)
	if err != nil {
		return Config{}, fmt.Errorf("day end: %w", err)
	}
	c := Config{SlotMinutes: slotMinutes, StartMinutes: start, EndMinutes: end}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns a 30-minute grid over 08:00-21:00.
func Default() Config {
	c, _ := New(DefaultSlotMinutes, DefaultDayStart, DefaultDayEnd)
	return c
}

// Validate checks that the window is non-empty and divides into whole slots.
func (c Config) Validate() error {
	if c.SlotMinutes <= 0 || 60%c.SlotMinutes != 0 {
		return Invalid("slot minutes", c.SlotMinutes, "must divide an hour evenly")
	}
	if c.StartMinutes < 0 || c.EndMinutes > MinutesPerDay || c.StartMinutes >= c.EndMinutes {
		return Invalid("window", c.Window(), "start must be before end within one day")
	}
	if (c.EndMinutes-c.StartMinutes)%c.SlotMinutes != 0 {
		return Invalid("window", c.Window(), fmt.Sprintf("must be a multiple of %d minutes", c.SlotMinutes))
	}
	if c.StartMinutes%c.SlotMinutes != 0 {
		return Invalid("window", c.Window(), "start must align to the slot width")
	}
	return nil
}

// Window returns the operating window as "HH:MM-HH:MM".
func (c Config) Window() string {
	return FormatClock(c.StartMinutes) + "-" + FormatClock(c.EndMinutes)
}

// SlotsPerDay returns the number of slots in the operating window.
func (c Config) SlotsPerDay() int {
	return (c.EndMinutes - c.StartMinutes) / c.SlotMinutes
}

// TotalSlots returns the number of cells in the whole week.
func (c Config) TotalSlots() int {
	return c.SlotsPerDay() * DaysPerWeek
}

// CheckCell returns a ValidationError if c is not on the grid.
func (c Config) CheckCell(cell Cell) error {
	if !cell.Day.Valid() {
		return Invalid("cell day", int(cell.Day), "must be 0-6")
	}
	if cell.Slot < 0 || cell.Slot >= c.SlotsPerDay() {
		return Invalid("cell slot", cell.Slot, fmt.Sprintf("must be in [0,%d)", c.SlotsPerDay()))
	}
	return nil
}

// ToWallClock returns the start time of a cell.
func (c Config) ToWallClock(cell Cell) WallClock {
	mins := c.BoundaryMinutes(cell.Slot)
	return WallClock{Day: cell.Day, Hour: mins / 60, Minute: mins % 60}
}

// FromWallClock returns the cell starting at the given time.
// The time must fall inside the window and on a slot boundary.
func (c Config) FromWallClock(day Day, hour, minute int) (Cell, error) {
	if !day.Valid() {
		return Cell{}, OutOfRange("day", int(day), "Monday-Sunday")
	}
	if hour < 0 || minute < 0 || minute > 59 {
		return Cell{}, OutOfRange("time", fmt.Sprintf("%02d:%02d", hour, minute), c.Window())
	}
	mins := hour*60 + minute
	if mins >= c.EndMinutes {
		return Cell{}, OutOfRange("time", FormatClock(mins), c.Window())
	}
	slot, err := c.BoundaryAt(mins)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Day: day, Slot: slot}, nil
}

// BoundaryMinutes converts a slot boundary (0..SlotsPerDay) to minutes since
// midnight. Boundary SlotsPerDay is the end of the window.
func (c Config) BoundaryMinutes(boundary int) int {
	return c.StartMinutes + boundary*c.SlotMinutes
}

// BoundaryAt converts minutes since midnight to a slot boundary. The end of
// the window is a valid boundary; unaligned or outside times are not.
func (c Config) BoundaryAt(mins int) (int, error) {
	if mins < c.StartMinutes || mins > c.EndMinutes {
		return 0, OutOfRange("time", FormatClock(mins), c.Window())
	}
	offset := mins - c.StartMinutes
	if offset%c.SlotMinutes != 0 {
		return 0, OutOfRange("time", FormatClock(mins), fmt.Sprintf("%d-minute slots of %s", c.SlotMinutes, c.Window()))
	}
	return offset / c.SlotMinutes, nil
}

// SlotLabel returns the "HH:MM" start of a slot.
func (c Config) SlotLabel(slot int) string {
	return FormatClock(c.BoundaryMinutes(slot))
}
