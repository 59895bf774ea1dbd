package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hwcompat/hwcompat/internal/audit"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// Opening twice must not re-run migrations destructively.
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestSaveAndListRuns(t *testing.T) {
	db := openTestDB(t)

	run := &Run{
		Kernel:        "6.12.0-55.el10.x86_64",
		TargetVersion: 9,
		Findings: []audit.Finding{
			{
				Kind:    audit.KindModule,
				Subject: "floppy",
				Status:  audit.StatusRemoved,
				Reason:  "Module floppy is removed",
			},
		},
	}
	if err := db.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == "" {
		t.Error("SaveRun did not assign a run ID")
	}
	if run.CreatedAt.IsZero() {
		t.Error("SaveRun did not assign a timestamp")
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != run.ID {
		t.Errorf("ID = %q, want %q", got.ID, run.ID)
	}
	if got.Kernel != run.Kernel {
		t.Errorf("Kernel = %q, want %q", got.Kernel, run.Kernel)
	}
	if got.TargetVersion != 9 {
		t.Errorf("TargetVersion = %d, want 9", got.TargetVersion)
	}
	if len(got.Findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(got.Findings))
	}
	f := got.Findings[0]
	if f.Kind != audit.KindModule || f.Subject != "floppy" || f.Status != audit.StatusRemoved {
		t.Errorf("finding = %+v", f)
	}
}

func TestListRunsOrder(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-c", "run-a", "run-b"} {
		run := &Run{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Kernel:    "6.12.0",
		}
		if err := db.SaveRun(run); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	want := []string{"run-c", "run-a", "run-b"}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
		}
	}
}

func TestSaveRunPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.SaveRun(&Run{Kernel: "6.12.0", TargetVersion: 10}); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	runs, err := db2.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].TargetVersion != 10 {
		t.Errorf("runs = %+v", runs)
	}
}
