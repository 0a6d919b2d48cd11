package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"topovista/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recorded, err := store.Record(ctx, Snapshot{
		TotalDevices:   5,
		VisibleDevices: 3,
		Connections:    4,
		ByCategory: map[domain.Category]int{
			domain.CategoryFirewall: 1,
			domain.CategorySwitch:   2,
		},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if recorded.ID == 0 {
		t.Error("recorded snapshot has no ID")
	}
	if recorded.TakenAt.IsZero() {
		t.Error("recorded snapshot has no timestamp")
	}

	snaps, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("List returned %d snapshots, want 1", len(snaps))
	}
	got := snaps[0]
	if got.TotalDevices != 5 || got.VisibleDevices != 3 || got.Connections != 4 {
		t.Errorf("listed snapshot = %+v", got)
	}
	if got.ByCategory[domain.CategoryFirewall] != 1 || got.ByCategory[domain.CategorySwitch] != 2 {
		t.Errorf("category counts = %v", got.ByCategory)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := store.Record(ctx, Snapshot{
			TakenAt:      base.Add(time.Duration(i) * time.Hour),
			TotalDevices: i,
		}); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	snaps, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("List returned %d snapshots, want 3", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].TakenAt.After(snaps[i-1].TakenAt) {
			t.Errorf("snapshots not newest first: %v before %v", snaps[i-1].TakenAt, snaps[i].TakenAt)
		}
	}
	if snaps[0].TotalDevices != 2 {
		t.Errorf("newest snapshot total = %d, want 2", snaps[0].TotalDevices)
	}
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Record(ctx, Snapshot{TotalDevices: i}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	snaps, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("List(2) returned %d snapshots", len(snaps))
	}

	snaps, err = store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 5 {
		t.Errorf("List(0) returned %d snapshots, want all 5 under the default cap", len(snaps))
	}
}

func TestNilCategoryCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, Snapshot{TotalDevices: 1}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	snaps, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if snaps[0].ByCategory != nil {
		t.Errorf("ByCategory = %v, want nil", snaps[0].ByCategory)
	}
}
