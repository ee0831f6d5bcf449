package integration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/db"
	"github.com/javiermolinar/availability/internal/drag"
	"github.com/javiermolinar/availability/internal/editor"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/ics"
	"github.com/javiermolinar/availability/internal/template"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// openSession loads owner's availability on the default 30-minute grid.
func openSession(t *testing.T, repo template.Repository, owner string, days template.DayConvention, opts ...editor.Option) *editor.Session {
	t.Helper()
	s := editor.New(repo, template.New(grid.Default(), days), owner, opts...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return s
}

func cell(day grid.Day, slot int) grid.Cell {
	return grid.Cell{Day: day, Slot: slot}
}

// dragCells runs one pointer gesture from the first cell through the rest.
func dragCells(t *testing.T, s *editor.Session, cells ...grid.Cell) {
	t.Helper()
	if err := s.PointerDown(cells[0]); err != nil {
		t.Fatalf("PointerDown(%v): %v", cells[0], err)
	}
	for _, c := range cells[1:] {
		if err := s.PointerEnter(c); err != nil {
			t.Fatalf("PointerEnter(%v): %v", c, err)
		}
	}
	s.PointerUp()
}

func labels(cfg grid.Config, ranges []availability.Range) string {
	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = r.Label(cfg)
	}
	return strings.Join(out, ", ")
}

func wantTemplates(t *testing.T, repo template.Repository, owner string, want ...template.Wire) {
	t.Helper()
	got, err := repo.ListTemplates(context.Background(), owner)
	if err != nil {
		t.Fatalf("failed to list templates: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("stored templates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("template %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDragSaveReload(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	s := openSession(t, repo, "alice", template.MondayFirst)
	// Tue 10:00-12:00 is slots 4-7 on the 08:00 grid.
	dragCells(t, s, cell(grid.Tuesday, 4), cell(grid.Tuesday, 5), cell(grid.Tuesday, 6), cell(grid.Tuesday, 7))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	wantTemplates(t, repo, "alice", template.Wire{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "12:00:00"})

	reopened := openSession(t, repo, "alice", template.MondayFirst)
	if got := labels(reopened.Grid(), reopened.Ranges()); got != "Tue 10:00-12:00" {
		t.Errorf("reloaded ranges = %q", got)
	}
	if reopened.HasChanges() {
		t.Error("freshly loaded session should have no changes")
	}
}

func TestEraseSplitsStoredRange(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	if err := repo.ReplaceTemplates(ctx, "alice", []template.Wire{
		{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "12:00:00"},
	}); err != nil {
		t.Fatal(err)
	}

	s := openSession(t, repo, "alice", template.MondayFirst)
	// Starting on a selected cell erases; 10:30-11:00 is slot 5.
	dragCells(t, s, cell(grid.Tuesday, 5))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	wantTemplates(t, repo, "alice",
		template.Wire{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "10:30:00"},
		template.Wire{DayOfWeek: 1, StartTime: "11:00:00", EndTime: "12:00:00"},
	)
}

func TestDragAcrossDaysRectangle(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	s := openSession(t, repo, "alice", template.MondayFirst, editor.WithShape(drag.ShapeRectangle))
	dragCells(t, s, cell(grid.Monday, 2), cell(grid.Wednesday, 3))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	wantTemplates(t, repo, "alice",
		template.Wire{DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00"},
		template.Wire{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00"},
		template.Wire{DayOfWeek: 2, StartTime: "09:00:00", EndTime: "10:00:00"},
	)
}

func TestLoadSkipsTemplatesOffGrid(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	if err := repo.ReplaceTemplates(ctx, "alice", []template.Wire{
		{DayOfWeek: 0, StartTime: "07:00:00", EndTime: "09:00:00"},
		{DayOfWeek: 0, StartTime: "10:15:00", EndTime: "11:00:00"},
		{DayOfWeek: 4, StartTime: "13:00:00", EndTime: "14:00:00"},
	}); err != nil {
		t.Fatal(err)
	}

	s := openSession(t, repo, "alice", template.MondayFirst)

	if n := len(s.Skipped()); n != 2 {
		t.Errorf("skipped %d templates, want 2", n)
	}
	if got := labels(s.Grid(), s.Ranges()); got != "Fri 13:00-14:00" {
		t.Errorf("loaded ranges = %q", got)
	}
}

func TestSundayFirstConvention(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	if err := repo.ReplaceTemplates(ctx, "alice", []template.Wire{
		{DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00"},
		{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00"},
	}); err != nil {
		t.Fatal(err)
	}

	s := openSession(t, repo, "alice", template.SundayFirst)
	if got := labels(s.Grid(), s.Ranges()); got != "Mon 09:00-10:00, Sun 09:00-10:00" {
		t.Fatalf("ranges = %q", got)
	}

	// Saturday is 6 for a Sunday-first backend.
	if err := s.Toggle(cell(grid.Saturday, 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	wantTemplates(t, repo, "alice",
		template.Wire{DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00"},
		template.Wire{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:00:00"},
		template.Wire{DayOfWeek: 6, StartTime: "08:00:00", EndTime: "08:30:00"},
	)
}

func TestOwnersAreIsolated(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	alice := openSession(t, repo, "alice", template.MondayFirst)
	bob := openSession(t, repo, "bob", template.MondayFirst)
	dragCells(t, alice, cell(grid.Monday, 0), cell(grid.Monday, 1))
	dragCells(t, bob, cell(grid.Friday, 10))
	if err := alice.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if err := bob.Save(ctx); err != nil {
		t.Fatal(err)
	}

	wantTemplates(t, repo, "alice", template.Wire{DayOfWeek: 0, StartTime: "08:00:00", EndTime: "09:00:00"})
	wantTemplates(t, repo, "bob", template.Wire{DayOfWeek: 4, StartTime: "13:00:00", EndTime: "13:30:00"})

	owners, err := repo.Owners(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(owners, ",") != "alice,bob" {
		t.Errorf("owners = %v", owners)
	}
}

func TestFailedReplaceKeepsEdits(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	s := openSession(t, repo, "alice", template.MondayFirst)
	dragCells(t, s, cell(grid.Monday, 0))
	if err := repo.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(ctx); err == nil {
		t.Fatal("expected save on a closed database to fail")
	}
	if !s.HasChanges() {
		t.Error("failed save should keep the session dirty")
	}
}

func TestExportIgnoresReaderZone(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	if err := repo.ReplaceTemplates(ctx, "alice", []template.Wire{
		{DayOfWeek: 2, StartTime: "09:00:00", EndTime: "10:30:00"},
	}); err != nil {
		t.Fatal(err)
	}
	s := openSession(t, repo, "alice", template.MondayFirst)

	from := time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC)
	var feeds []string
	for _, loc := range []*time.Location{time.UTC, time.FixedZone("UTC-5", -5*3600), time.FixedZone("UTC+9", 9*3600)} {
		events, err := ics.Events(s.Grid(), s.Ranges(), ics.Options{From: from, Location: loc, Owner: "alice"})
		if err != nil {
			t.Fatalf("Events(%s): %v", loc, err)
		}
		if len(events) != 1 {
			t.Fatalf("Events(%s) = %d events", loc, len(events))
		}
		feeds = append(feeds, events[0].Start.Format("2006-01-02 15:04")+" "+events[0].End.Format("15:04"))
	}

	// From is Friday in UTC and UTC-5 but Saturday in UTC+9, all in the
	// week of Monday 2026-10-12.
	for i, f := range feeds {
		if f != "2026-10-14 09:00 10:30" {
			t.Errorf("feed %d starts %q, want 2026-10-14 09:00 10:30", i, f)
		}
	}
}
