package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oscargus/objinv/internal/store"
	"github.com/oscargus/objinv/objinv"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// testDB opens a fresh isolated database in t.TempDir().
// It is closed automatically when the test ends. No test ever touches a
// production database.
func testDB(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeInventory(project, version string, objs ...*objinv.DataObjStr) *objinv.Inventory {
	inv := objinv.NewManualInventory()
	inv.Project, inv.Version = project, version
	inv.Objects = objs
	return inv
}

func makeObj(t *testing.T, name string) *objinv.DataObjStr {
	t.Helper()
	obj, err := objinv.NewDataObjStr(map[string]string{
		"name": name, "domain": "py", "role": "class",
		"priority": "1", "uri": "api.html#$", "dispname": "-",
	})
	if err != nil {
		t.Fatalf("NewDataObjStr: %v", err)
	}
	return obj
}

// ─── Open / Path ──────────────────────────────────────────────────────────────

func TestOpenCreatesDB(t *testing.T) {
	s := testDB(t)
	if s.Path() == "" {
		t.Error("Path() should return the db path after open")
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open with nested path: %v", err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("Path: expected %q, got %q", path, s.Path())
	}
}

func TestCloseIdempotentFirstClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
}

// ─── Inventories ──────────────────────────────────────────────────────────────

func TestPutGetInventory(t *testing.T) {
	s := testDB(t)
	inv := makeInventory("attrs", "22.1", makeObj(t, "attr.Attribute"), makeObj(t, "attr.evolve"))

	if err := s.PutInventory("https://www.attrs.org/en/stable/objects.inv", inv); err != nil {
		t.Fatalf("PutInventory: %v", err)
	}

	got, found, err := s.GetInventory("https://www.attrs.org/en/stable/objects.inv")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if !found {
		t.Fatal("expected to find cached inventory after put")
	}
	if got.Project != "attrs" || got.Version != "22.1" {
		t.Errorf("Project/Version: expected attrs/22.1, got %s/%s", got.Project, got.Version)
	}
	if got.Count() != 2 {
		t.Errorf("Count: expected 2, got %d", got.Count())
	}
}

func TestGetInventoryNotFound(t *testing.T) {
	s := testDB(t)
	_, found, err := s.GetInventory("https://example.com/objects.inv")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if found {
		t.Error("expected not found for missing key")
	}
}

func TestPutInventoryOverwrites(t *testing.T) {
	s := testDB(t)
	key := "file:///tmp/objects.inv"

	_ = s.PutInventory(key, makeInventory("p", "v1", makeObj(t, "a")))
	_ = s.PutInventory(key, makeInventory("p", "v2", makeObj(t, "a"), makeObj(t, "b")))

	got, found, err := s.GetInventory(key)
	if err != nil || !found {
		t.Fatalf("GetInventory: err=%v found=%v", err, found)
	}
	if got.Version != "v2" {
		t.Errorf("expected overwritten version v2, got %q", got.Version)
	}
	if got.Count() != 2 {
		t.Errorf("expected 2 objects after overwrite, got %d", got.Count())
	}
}

func TestPutInventoryRoundTripsObjectFields(t *testing.T) {
	s := testDB(t)
	key := "k"
	obj, err := objinv.NewDataObjStr(map[string]string{
		"name": "attr.Attribute", "domain": "py", "role": "class",
		"priority": "1", "uri": "api.html#attr.$", "dispname": "-",
	})
	if err != nil {
		t.Fatalf("NewDataObjStr: %v", err)
	}
	_ = s.PutInventory(key, makeInventory("attrs", "22.1", obj))

	got, _, err := s.GetInventory(key)
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if len(got.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(got.Objects))
	}
	gotObj := got.Objects[0]
	if gotObj.Name != "attr.Attribute" || gotObj.Domain != "py" || gotObj.Role != "class" {
		t.Errorf("object fields not preserved: %+v", gotObj)
	}
	if gotObj.URI != "api.html#attr.$" {
		t.Errorf("URI should round trip unchanged through the cache, got %q", gotObj.URI)
	}
}

func TestListInventoryKeys(t *testing.T) {
	s := testDB(t)
	_ = s.PutInventory("a", makeInventory("p1", "v1"))
	_ = s.PutInventory("b", makeInventory("p2", "v1"))
	_ = s.PutInventory("c", makeInventory("p3", "v1"))

	keys, err := s.ListInventoryKeys()
	if err != nil {
		t.Fatalf("ListInventoryKeys: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("expected 3 keys, got %d: %v", len(keys), keys)
	}
}

func TestListInventoryKeysEmpty(t *testing.T) {
	s := testDB(t)
	keys, err := s.ListInventoryKeys()
	if err != nil {
		t.Fatalf("ListInventoryKeys on empty db: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected 0 keys on fresh db, got %d", len(keys))
	}
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

func TestPutGetSnapshot(t *testing.T) {
	s := testDB(t)
	snap := store.Snapshot{
		ID:          "01JABCDEF0000000000000000",
		Name:        "attrs-stable",
		CommandLine: "objinv convert https://www.attrs.org/en/stable/objects.inv --format json",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := s.PutSnapshot(snap); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}

	got, found, err := s.GetSnapshot(snap.ID)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if !found {
		t.Fatal("expected to find snapshot after put")
	}
	if got.Name != snap.Name || got.CommandLine != snap.CommandLine {
		t.Errorf("snapshot fields not preserved: got %+v", got)
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	s := testDB(t)
	_, found, err := s.GetSnapshot("notexist")
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if found {
		t.Error("expected not found for missing snapshot")
	}
}

func TestListSnapshots(t *testing.T) {
	s := testDB(t)
	for i, name := range []string{"snap-a", "snap-b", "snap-c"} {
		_ = s.PutSnapshot(store.Snapshot{
			ID:          string(rune('1'+i)) + "ABCDEF",
			Name:        name,
			CommandLine: "objinv suggest attrs Attribute",
			CreatedAt:   time.Now(),
		})
	}

	snaps, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 3 {
		t.Errorf("expected 3 snapshots, got %d", len(snaps))
	}
}

func TestDeleteSnapshot(t *testing.T) {
	s := testDB(t)
	snap := store.Snapshot{
		ID: "DELETEME", Name: "test",
		CommandLine: "objinv convert a.inv", CreatedAt: time.Now(),
	}
	_ = s.PutSnapshot(snap)

	if err := s.DeleteSnapshot("DELETEME"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}

	_, found, err := s.GetSnapshot("DELETEME")
	if err != nil {
		t.Fatalf("GetSnapshot after delete: %v", err)
	}
	if found {
		t.Error("snapshot should not be found after delete")
	}
}

func TestListSnapshotsEmpty(t *testing.T) {
	s := testDB(t)
	snaps, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots on empty db: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected 0 snapshots on fresh db, got %d", len(snaps))
	}
}

// ─── Stats ────────────────────────────────────────────────────────────────────

func TestStatsEmpty(t *testing.T) {
	s := testDB(t)
	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	for _, bs := range stats {
		if bs.Count != 0 {
			t.Errorf("bucket %q: expected 0 rows on fresh db, got %d", bs.Name, bs.Count)
		}
	}
}

func TestStatsCountsRows(t *testing.T) {
	s := testDB(t)
	_ = s.PutInventory("a", makeInventory("p1", "v1"))
	_ = s.PutInventory("b", makeInventory("p2", "v1"))
	_ = s.PutSnapshot(store.Snapshot{ID: "s1", Name: "x", CommandLine: "objinv convert a", CreatedAt: time.Now()})

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	byName := make(map[string]int)
	for _, bs := range stats {
		byName[bs.Name] = bs.Count
	}
	if byName["inventories"] != 2 {
		t.Errorf("inventories: expected 2, got %d", byName["inventories"])
	}
	if byName["snapshots"] != 1 {
		t.Errorf("snapshots: expected 1, got %d", byName["snapshots"])
	}
}

// ─── ClearBucket / ClearAll ───────────────────────────────────────────────────

func TestClearBucket(t *testing.T) {
	s := testDB(t)
	_ = s.PutInventory("a", makeInventory("p1", "v1"))
	_ = s.PutInventory("b", makeInventory("p2", "v1"))

	if err := s.ClearBucket("inventories"); err != nil {
		t.Fatalf("ClearBucket: %v", err)
	}

	keys, _ := s.ListInventoryKeys()
	if len(keys) != 0 {
		t.Errorf("expected 0 keys after ClearBucket, got %d", len(keys))
	}
}

func TestClearBucketLeavesOthersIntact(t *testing.T) {
	s := testDB(t)
	_ = s.PutInventory("a", makeInventory("p1", "v1"))
	_ = s.PutSnapshot(store.Snapshot{ID: "s1", Name: "x", CommandLine: "objinv convert a", CreatedAt: time.Now()})

	_ = s.ClearBucket("inventories")

	_, found, err := s.GetSnapshot("s1")
	if err != nil {
		t.Fatalf("GetSnapshot after ClearBucket(inventories): %v", err)
	}
	if !found {
		t.Error("snapshots bucket should be intact after clearing inventories")
	}
}

func TestClearAll(t *testing.T) {
	s := testDB(t)
	_ = s.PutInventory("a", makeInventory("p1", "v1"))
	_ = s.PutSnapshot(store.Snapshot{ID: "s1", Name: "x", CommandLine: "objinv convert a", CreatedAt: time.Now()})

	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}

	keys, _ := s.ListInventoryKeys()
	snaps, _ := s.ListSnapshots()
	if len(keys) != 0 || len(snaps) != 0 {
		t.Errorf("ClearAll: keys=%d snaps=%d (all should be 0)", len(keys), len(snaps))
	}
}

// ─── Compact ──────────────────────────────────────────────────────────────────

func TestCompactPreservesData(t *testing.T) {
	s := testDB(t)
	_ = s.PutInventory("a", makeInventory("attrs", "22.1", makeObj(t, "attr.Attribute")))
	_ = s.PutInventory("b", makeInventory("other", "1.0", makeObj(t, "mod.thing")))

	before, after, err := s.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if before == 0 {
		t.Error("before size should be nonzero")
	}
	if after == 0 {
		t.Error("after size should be nonzero")
	}

	got, found, err := s.GetInventory("a")
	if err != nil || !found {
		t.Fatalf("GetInventory after Compact: err=%v found=%v", err, found)
	}
	if got.Project != "attrs" {
		t.Errorf("data lost across Compact: got project %q", got.Project)
	}
}

// ─── Isolation ────────────────────────────────────────────────────────────────

func TestEachTestGetsIsolatedDB(t *testing.T) {
	s1 := testDB(t)
	_ = s1.PutInventory("a", makeInventory("p1", "v1"))

	s2 := testDB(t)
	_, found, err := s2.GetInventory("a")
	if err != nil {
		t.Fatalf("GetInventory on s2: %v", err)
	}
	if found {
		t.Error("s2 should not see data written to s1 — databases are not isolated")
	}
}
