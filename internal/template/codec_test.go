package template

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/grid"
)

func hourly(t *testing.T) grid.Config {
	t.Helper()
	cfg, err := grid.New(60, "08:00", "21:00")
	if err != nil {
		t.Fatalf("grid.New() error = %v", err)
	}
	return cfg
}

func TestDayConvention(t *testing.T) {
	tests := []struct {
		conv DayConvention
		day  grid.Day
		wire int
	}{
		{MondayFirst, grid.Monday, 0},
		{MondayFirst, grid.Sunday, 6},
		{MondayFirst, grid.Tuesday, 1},
		{SundayFirst, grid.Sunday, 0},
		{SundayFirst, grid.Monday, 1},
		{SundayFirst, grid.Saturday, 6},
	}

	for _, tt := range tests {
		t.Run(tt.conv.String()+"/"+tt.day.String(), func(t *testing.T) {
			if got := tt.conv.ToWire(tt.day); got != tt.wire {
				t.Errorf("ToWire(%v) = %d, want %d", tt.day, got, tt.wire)
			}
			back, err := tt.conv.FromWire(tt.wire)
			if err != nil {
				t.Fatalf("FromWire(%d) error = %v", tt.wire, err)
			}
			if back != tt.day {
				t.Errorf("FromWire(%d) = %v, want %v", tt.wire, back, tt.day)
			}
		})
	}

	if _, err := MondayFirst.FromWire(7); !errors.Is(err, grid.ErrOutOfRange) {
		t.Errorf("FromWire(7) error = %v, want ErrOutOfRange", err)
	}
}

func TestParseDayConvention(t *testing.T) {
	tests := []struct {
		in      string
		want    DayConvention
		wantErr bool
	}{
		{"", MondayFirst, false},
		{"monday", MondayFirst, false},
		{"Sunday", SundayFirst, false},
		{" sun ", SundayFirst, false},
		{"friday", MondayFirst, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDayConvention(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDayConvention(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDayConvention(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00:00", 540, false},
		{"09:30", 570, false},
		{"00:00:00", 0, false},
		{"24:00:00", 1440, false},
		{"24:00", 1440, false},
		{"09:00:30", 0, true},
		{"9:00:00", 0, true},
		{"09-00-00", 0, true},
		{"25:00:00", 0, true},
		{"", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, grid.ErrValidation) {
				t.Errorf("ParseTime(%q) error = %v, want ErrValidation", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTime(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{
		0:    "00:00:00",
		540:  "09:00:00",
		1275: "21:15:00",
		1440: "24:00:00",
	}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestCodec_Encode(t *testing.T) {
	cfg := hourly(t)
	ranges := []availability.Range{
		{Day: grid.Tuesday, Start: 2, End: 4},
		{Day: grid.Wednesday, Start: 2, End: 3},
	}

	t.Run("monday first", func(t *testing.T) {
		got, err := New(cfg, MondayFirst).Encode(ranges)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		want := []Wire{
			{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "12:00:00"},
			{DayOfWeek: 2, StartTime: "10:00:00", EndTime: "11:00:00"},
		}
		assertWires(t, got, want)
	})

	t.Run("sunday first", func(t *testing.T) {
		got, err := New(cfg, SundayFirst).Encode(ranges)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		want := []Wire{
			{DayOfWeek: 2, StartTime: "10:00:00", EndTime: "12:00:00"},
			{DayOfWeek: 3, StartTime: "10:00:00", EndTime: "11:00:00"},
		}
		assertWires(t, got, want)
	})

	t.Run("off grid", func(t *testing.T) {
		_, err := New(cfg, MondayFirst).Encode([]availability.Range{{Day: grid.Monday, Start: 12, End: 14}})
		if !errors.Is(err, grid.ErrValidation) {
			t.Errorf("Encode() error = %v, want ErrValidation", err)
		}
	})

	t.Run("window end", func(t *testing.T) {
		full, err := grid.New(60, "00:00", "24:00")
		if err != nil {
			t.Fatal(err)
		}
		got, err := New(full, MondayFirst).EncodeOne(availability.Range{Day: grid.Friday, Start: 22, End: 24})
		if err != nil {
			t.Fatalf("EncodeOne() error = %v", err)
		}
		if got.EndTime != "24:00:00" {
			t.Errorf("EndTime = %q, want 24:00:00", got.EndTime)
		}
	})
}

func TestCodec_DecodeOne(t *testing.T) {
	cfg := hourly(t)
	codec := New(cfg, MondayFirst)

	tests := []struct {
		name       string
		in         Wire
		want       availability.Range
		wantErr    bool
		outOfRange bool
	}{
		{
			name: "basic",
			in:   Wire{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "12:00:00"},
			want: availability.Range{Day: grid.Tuesday, Start: 2, End: 4},
		},
		{
			name: "short times",
			in:   Wire{DayOfWeek: 0, StartTime: "08:00", EndTime: "21:00"},
			want: availability.Range{Day: grid.Monday, Start: 0, End: 13},
		},
		{
			name:    "inverted",
			in:      Wire{DayOfWeek: 0, StartTime: "12:00:00", EndTime: "10:00:00"},
			wantErr: true,
		},
		{
			name:    "empty",
			in:      Wire{DayOfWeek: 0, StartTime: "10:00:00", EndTime: "10:00:00"},
			wantErr: true,
		},
		{
			name:    "garbage",
			in:      Wire{DayOfWeek: 0, StartTime: "ten", EndTime: "12:00:00"},
			wantErr: true,
		},
		{
			name:       "before window",
			in:         Wire{DayOfWeek: 0, StartTime: "07:00:00", EndTime: "09:00:00"},
			wantErr:    true,
			outOfRange: true,
		},
		{
			name:       "after window",
			in:         Wire{DayOfWeek: 0, StartTime: "20:00:00", EndTime: "22:00:00"},
			wantErr:    true,
			outOfRange: true,
		},
		{
			name:       "unaligned",
			in:         Wire{DayOfWeek: 0, StartTime: "10:30:00", EndTime: "12:00:00"},
			wantErr:    true,
			outOfRange: true,
		},
		{
			name:       "bad day",
			in:         Wire{DayOfWeek: 9, StartTime: "10:00:00", EndTime: "12:00:00"},
			wantErr:    true,
			outOfRange: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.DecodeOne(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeOne(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, grid.ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
				if tt.outOfRange && !errors.Is(err, grid.ErrOutOfRange) {
					t.Errorf("error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("DecodeOne(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCodec_DecodeMidnightEnd(t *testing.T) {
	cfg, err := grid.New(60, "18:00", "24:00")
	if err != nil {
		t.Fatal(err)
	}
	codec := New(cfg, MondayFirst)

	for _, end := range []string{"24:00:00", "00:00:00", "24:00"} {
		got, err := codec.DecodeOne(Wire{DayOfWeek: 4, StartTime: "22:00:00", EndTime: end})
		if err != nil {
			t.Fatalf("DecodeOne(end %q) error = %v", end, err)
		}
		want := availability.Range{Day: grid.Friday, Start: 4, End: 6}
		if got != want {
			t.Errorf("DecodeOne(end %q) = %v, want %v", end, got, want)
		}
	}
}

func TestCodec_Decode(t *testing.T) {
	codec := New(hourly(t), MondayFirst)
	in := []Wire{
		{DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00"},
		{DayOfWeek: 0, StartTime: "bogus", EndTime: "10:00:00"},
		{DayOfWeek: 2, StartTime: "13:00:00", EndTime: "15:00:00"},
		{DayOfWeek: 3, StartTime: "06:00:00", EndTime: "07:00:00"},
	}

	ranges, skipped := codec.Decode(in)
	want := []availability.Range{
		{Day: grid.Monday, Start: 1, End: 2},
		{Day: grid.Wednesday, Start: 5, End: 7},
	}
	if len(ranges) != len(want) {
		t.Fatalf("Decode() ranges = %v, want %v", ranges, want)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("ranges[%d] = %v, want %v", i, ranges[i], want[i])
		}
	}

	if len(skipped) != 2 {
		t.Fatalf("Decode() skipped %d, want 2", len(skipped))
	}
	if skipped[0].Index != 1 || skipped[1].Index != 3 {
		t.Errorf("skipped indexes = %d,%d, want 1,3", skipped[0].Index, skipped[1].Index)
	}
	joined := JoinDecodeErrors(skipped)
	if !errors.Is(joined, grid.ErrValidation) {
		t.Errorf("JoinDecodeErrors() = %v, want ErrValidation", joined)
	}
	if JoinDecodeErrors(nil) != nil {
		t.Error("JoinDecodeErrors(nil) should be nil")
	}

	_, err := codec.DecodeStrict(in)
	if err == nil {
		t.Fatal("DecodeStrict() should fail on a bad template")
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Index != 1 {
		t.Errorf("DecodeStrict() error = %v, want first failure at index 1", err)
	}
	if !strings.Contains(err.Error(), "template 3") {
		t.Errorf("DecodeStrict() error = %v, want every failure reported", err)
	}
	if ranges, err := codec.DecodeStrict(in[:1]); err != nil || len(ranges) != 1 {
		t.Errorf("DecodeStrict(valid) = %v, %v", ranges, err)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	grids := []grid.Config{hourly(t), grid.Default()}
	quarter, err := grid.New(15, "00:00", "24:00")
	if err != nil {
		t.Fatal(err)
	}
	grids = append(grids, quarter)

	r := rand.New(rand.NewPCG(3, 11))
	for _, cfg := range grids {
		for _, conv := range []DayConvention{MondayFirst, SundayFirst} {
			codec := New(cfg, conv)
			n := cfg.SlotsPerDay()
			for i := 0; i < 200; i++ {
				start := r.IntN(n)
				rg := availability.Range{
					Day:   grid.Day(r.IntN(grid.DaysPerWeek)),
					Start: start,
					End:   start + 1 + r.IntN(n-start),
				}
				w, err := codec.EncodeOne(rg)
				if err != nil {
					t.Fatalf("EncodeOne(%v) error = %v", rg, err)
				}
				back, err := codec.DecodeOne(w)
				if err != nil {
					t.Fatalf("DecodeOne(%v) error = %v", w, err)
				}
				if back != rg {
					t.Fatalf("round trip %v -> %v -> %v", rg, w, back)
				}
			}
		}
	}
}

func assertWires(t *testing.T, got, want []Wire) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d templates %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("template %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
