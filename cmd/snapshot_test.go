package cmd

import (
	"regexp"
	"testing"
	"time"
)

func TestNewSnapshotIDFormat(t *testing.T) {
	id := newSnapshotID()
	re := regexp.MustCompile(`^\d{14}[0-9a-f]{4}$`)
	if !re.MatchString(id) {
		t.Fatalf("snapshot id not timestamp+hex format: %q", id)
	}
}

func TestNewSnapshotIDSortability(t *testing.T) {
	a := newSnapshotID()
	time.Sleep(2 * time.Millisecond)
	b := newSnapshotID()
	if a >= b {
		t.Fatalf("expected increasing lexical order across time: a=%q b=%q", a, b)
	}
}
