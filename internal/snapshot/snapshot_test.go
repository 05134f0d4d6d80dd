package snapshot

import (
	"sync"
	"testing"

	"github.com/khartley/linchpin/internal/critpath"
	"github.com/khartley/linchpin/internal/item"
)

func chainResult(t *testing.T, ids ...string) *critpath.Result {
	t.Helper()
	items := make(map[string]item.Item)
	for i, id := range ids {
		it := item.Item{ID: id, Title: id, Kind: item.KindTask, Status: item.StatusPending}
		if i > 0 {
			it.DependsOn = []string{ids[i-1]}
		}
		items[id] = it
	}
	return critpath.Calculate(items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Fatal("fresh dir should have no snapshot")
	}

	s := Capture(chainResult(t, "a", "b", "c"))
	if err := Save(dir, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists(dir) {
		t.Fatal("snapshot should exist after save")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Length != 3 || !loaded.HasPath {
		t.Errorf("unexpected snapshot: %+v", loaded)
	}
	if len(loaded.NodeIDs) != 3 || loaded.NodeIDs[0] != "a" {
		t.Errorf("expected path order [a b c], got %v", loaded.NodeIDs)
	}

	if err := Clean(dir); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if Exists(dir) {
		t.Error("snapshot should be gone after clean")
	}
	if err := Clean(dir); err != nil {
		t.Errorf("cleaning a missing snapshot should not error: %v", err)
	}
}

func TestConcurrentSave(t *testing.T) {
	dir := t.TempDir()
	s := Capture(chainResult(t, "a", "b", "c"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Save(dir, s); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load after concurrent saves: %v", err)
	}
	if loaded.Length != 3 || len(loaded.NodeIDs) != 3 {
		t.Errorf("snapshot corrupted by concurrent saves: %+v", loaded)
	}
}

func TestDiff(t *testing.T) {
	old := Capture(chainResult(t, "a", "b", "c"))
	cur := Capture(chainResult(t, "a", "b", "c", "d"))

	d := old.Diff(cur)
	if d.Unchanged() {
		t.Fatal("expected a difference")
	}
	if d.LengthDelta != 1 {
		t.Errorf("expected length delta 1, got %d", d.LengthDelta)
	}
	if len(d.Added) != 1 || d.Added[0] != "d" {
		t.Errorf("expected added [d], got %v", d.Added)
	}
	if len(d.Removed) != 0 {
		t.Errorf("expected nothing removed, got %v", d.Removed)
	}

	same := old.Diff(Capture(chainResult(t, "a", "b", "c")))
	if !same.Unchanged() {
		t.Errorf("identical paths should diff as unchanged: %+v", same)
	}
}
