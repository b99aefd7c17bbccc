package buildinfo

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	started := time.Date(2026, 10, 16, 8, 30, 0, 123456789, time.FixedZone("CST", 8*3600))

	info := New("1.4.2", started)
	if info.Version != "1.4.2" {
		t.Errorf("Expected version 1.4.2, got %s", info.Version)
	}
	if info.BuildTimestamp != "2026-10-16T00:30:00.123456Z" {
		t.Errorf("Expected UTC microsecond timestamp, got %s", info.BuildTimestamp)
	}

	if got := New("", started).Version; got != "unknown" {
		t.Errorf("Expected unknown version, got %s", got)
	}
}
