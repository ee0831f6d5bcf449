package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/template"
)

func TestReplaceAndListTemplates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []template.Wire{
		{DayOfWeek: 2, StartTime: "10:00:00", EndTime: "11:00:00"},
		{DayOfWeek: 1, StartTime: "10:00:00", EndTime: "12:00:00"},
	}
	if err := repo.ReplaceTemplates(ctx, "alice", first); err != nil {
		t.Fatalf("ReplaceTemplates failed: %v", err)
	}

	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	want := []template.Wire{first[1], first[0]}
	assertTemplates(t, got, want)

	second := []template.Wire{{DayOfWeek: 4, StartTime: "09:00:00", EndTime: "17:00:00"}}
	if err := repo.ReplaceTemplates(ctx, "alice", second); err != nil {
		t.Fatalf("ReplaceTemplates failed: %v", err)
	}
	got, err = repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	assertTemplates(t, got, second)
}

func TestReplaceTemplates_Empty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.AddTemplates(ctx, "alice", []template.Wire{{DayOfWeek: 0, StartTime: "08:00:00", EndTime: "09:00:00"}}); err != nil {
		t.Fatalf("AddTemplates failed: %v", err)
	}
	if err := repo.ReplaceTemplates(ctx, "alice", nil); err != nil {
		t.Fatalf("ReplaceTemplates failed: %v", err)
	}
	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no templates, got %v", got)
	}
}

func TestTemplates_OwnersAreIsolated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := []template.Wire{{DayOfWeek: 0, StartTime: "08:00:00", EndTime: "09:00:00"}}
	b := []template.Wire{{DayOfWeek: 6, StartTime: "18:00:00", EndTime: "20:00:00"}}
	if err := repo.ReplaceTemplates(ctx, "alice", a); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceTemplates(ctx, "bob", b); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	assertTemplates(t, got, a)

	owners, err := repo.Owners(ctx)
	if err != nil {
		t.Fatalf("Owners failed: %v", err)
	}
	if len(owners) != 2 || owners[0] != "alice" || owners[1] != "bob" {
		t.Errorf("Owners() = %v, want [alice bob]", owners)
	}
}

func TestAddTemplates_IgnoresDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	w := template.Wire{DayOfWeek: 3, StartTime: "13:00:00", EndTime: "14:00:00"}
	for i := 0; i < 2; i++ {
		if err := repo.AddTemplates(ctx, "alice", []template.Wire{w}); err != nil {
			t.Fatalf("AddTemplates failed: %v", err)
		}
	}
	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	assertTemplates(t, got, []template.Wire{w})
}

func TestAddTemplates_RejectsMalformed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   template.Wire
	}{
		{"bad day", template.Wire{DayOfWeek: 7, StartTime: "08:00:00", EndTime: "09:00:00"}},
		{"bad start", template.Wire{DayOfWeek: 0, StartTime: "8am", EndTime: "09:00:00"}},
		{"bad end", template.Wire{DayOfWeek: 0, StartTime: "08:00:00", EndTime: "09:00:15"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.AddTemplates(ctx, "alice", []template.Wire{tt.in})
			if !errors.Is(err, grid.ErrValidation) {
				t.Errorf("AddTemplates error = %v, want ErrValidation", err)
			}
		})
	}

	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("malformed templates were stored: %v", got)
	}
}

func TestDeleteTemplates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	all := []template.Wire{
		{DayOfWeek: 0, StartTime: "08:00:00", EndTime: "09:00:00"},
		{DayOfWeek: 0, StartTime: "10:00:00", EndTime: "11:00:00"},
		{DayOfWeek: 1, StartTime: "08:00:00", EndTime: "09:00:00"},
	}
	if err := repo.ReplaceTemplates(ctx, "alice", all); err != nil {
		t.Fatal(err)
	}

	n, err := repo.DeleteTemplates(ctx, "alice", []template.Wire{
		all[1],
		{DayOfWeek: 5, StartTime: "08:00:00", EndTime: "09:00:00"},
	})
	if err != nil {
		t.Fatalf("DeleteTemplates failed: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteTemplates deleted %d, want 1", n)
	}

	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	assertTemplates(t, got, []template.Wire{all[0], all[2]})
}

func TestNew_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	w := template.Wire{DayOfWeek: 2, StartTime: "09:00:00", EndTime: "10:00:00"}
	if err := repo.AddTemplates(ctx, "alice", []template.Wire{w}); err != nil {
		t.Fatal(err)
	}
	_ = repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	got, err := repo.ListTemplates(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	assertTemplates(t, got, []template.Wire{w})
}

func assertTemplates(t *testing.T, got, want []template.Wire) {
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

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
