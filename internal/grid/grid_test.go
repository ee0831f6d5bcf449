package grid

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		slot      int
		start     string
		end       string
		wantSlots int
		wantErr   error
	}{
		{name: "30 minute default", slot: 30, start: "08:00", end: "21:00", wantSlots: 26},
		{name: "hourly", slot: 60, start: "08:00", end: "21:00", wantSlots: 13},
		{name: "full day", slot: 60, start: "00:00", end: "24:00", wantSlots: 24},
		{name: "quarter hours", slot: 15, start: "09:00", end: "10:00", wantSlots: 4},
		{name: "slot does not divide hour", slot: 45, start: "08:00", end: "20:00", wantErr: ErrValidation},
		{name: "empty window", slot: 30, start: "10:00", end: "10:00", wantErr: ErrValidation},
		{name: "inverted window", slot: 30, start: "12:00", end: "10:00", wantErr: ErrValidation},
		{name: "window not multiple of slot", slot: 60, start: "08:00", end: "20:30", wantErr: ErrValidation},
		{name: "bad start format", slot: 30, start: "8:00", end: "20:00", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(tt.slot, tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := cfg.SlotsPerDay(); got != tt.wantSlots {
				t.Errorf("SlotsPerDay() = %d, want %d", got, tt.wantSlots)
			}
		})
	}
}

func TestToWallClock(t *testing.T) {
	cfg := Default()

	tests := []struct {
		cell Cell
		want WallClock
	}{
		{cell: Cell{Day: Monday, Slot: 0}, want: WallClock{Day: Monday, Hour: 8, Minute: 0}},
		{cell: Cell{Day: Tuesday, Slot: 1}, want: WallClock{Day: Tuesday, Hour: 8, Minute: 30}},
		{cell: Cell{Day: Sunday, Slot: 25}, want: WallClock{Day: Sunday, Hour: 20, Minute: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.cell.String(), func(t *testing.T) {
			if got := cfg.ToWallClock(tt.cell); got != tt.want {
				t.Errorf("ToWallClock(%v) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestFromWallClock(t *testing.T) {
	cfg := Default()

	t.Run("inverse of ToWallClock for every cell", func(t *testing.T) {
		for d := Monday; d <= Sunday; d++ {
			for s := 0; s < cfg.SlotsPerDay(); s++ {
				cell := Cell{Day: d, Slot: s}
				wc := cfg.ToWallClock(cell)
				got, err := cfg.FromWallClock(wc.Day, wc.Hour, wc.Minute)
				if err != nil {
					t.Fatalf("FromWallClock(%v) error: %v", wc, err)
				}
				if got != cell {
					t.Fatalf("FromWallClock(%v) = %v, want %v", wc, got, cell)
				}
			}
		}
	})

	errTests := []struct {
		name   string
		day    Day
		hour   int
		minute int
	}{
		{name: "before window", day: Monday, hour: 7, minute: 30},
		{name: "window end is not a cell", day: Monday, hour: 21, minute: 0},
		{name: "after window", day: Monday, hour: 22, minute: 0},
		{name: "unaligned", day: Monday, hour: 9, minute: 15},
		{name: "invalid day", day: Day(7), hour: 9, minute: 0},
		{name: "negative day", day: Day(-1), hour: 9, minute: 0},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfg.FromWallClock(tt.day, tt.hour, tt.minute)
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("got error %v, want ErrOutOfRange", err)
			}
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("expected *OutOfRangeError, got %T", err)
			}
		})
	}
}

func TestBoundaryAt(t *testing.T) {
	cfg := Default()

	got, err := cfg.BoundaryAt(21 * 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfg.SlotsPerDay() {
		t.Errorf("BoundaryAt(21:00) = %d, want %d", got, cfg.SlotsPerDay())
	}
	if cfg.BoundaryMinutes(got) != 21*60 {
		t.Errorf("BoundaryMinutes(%d) = %d, want %d", got, cfg.BoundaryMinutes(got), 21*60)
	}
	if _, err := cfg.BoundaryAt(21*60 + 30); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("BoundaryAt past window: got %v, want ErrOutOfRange", err)
	}
}

func TestCheckCell(t *testing.T) {
	cfg := Default()

	if err := cfg.CheckCell(Cell{Day: Friday, Slot: 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, c := range []Cell{{Day: Friday, Slot: -1}, {Day: Friday, Slot: 26}, {Day: Day(9), Slot: 0}} {
		if err := cfg.CheckCell(c); !errors.Is(err, ErrValidation) {
			t.Errorf("CheckCell(%v) = %v, want ErrValidation", c, err)
		}
	}
}
