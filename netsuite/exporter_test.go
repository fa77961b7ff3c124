package netsuite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func exporter(t *testing.T) *Exporter {
	return &Exporter{
		downloadDir: t.TempDir(),
		logger:      zap.NewNop(),
		downloads:   make(chan string, 8),
		filenames:   map[string]string{},
	}
}

func TestLatestDownloadIgnoresEarlierFiles(t *testing.T) {
	e := exporter(t)

	stale := filepath.Join(e.downloadDir, "previous.xls")
	if err := os.WriteFile(stale, []byte("old"), 0660); err != nil {
		t.Fatalf("Unexpected error creating download file (%v)", err)
	}

	earlier := time.Now().Add(-time.Minute)
	if err := os.Chtimes(stale, earlier, earlier); err != nil {
		t.Fatalf("Unexpected error backdating download file (%v)", err)
	}

	cutoff := time.Now().Add(-time.Second)

	if file := e.latestDownload(cutoff); file != "" {
		t.Errorf("Incorrect download - expected none, got:%v", file)
	}

	current := filepath.Join(e.downloadDir, "current.xls")
	if err := os.WriteFile(current, []byte("new"), 0660); err != nil {
		t.Fatalf("Unexpected error creating download file (%v)", err)
	}

	if file := e.latestDownload(cutoff); file != current {
		t.Errorf("Incorrect download - expected:%v, got:%v", current, file)
	}
}

func TestDrainDownloadsDiscardsStaleEvents(t *testing.T) {
	e := exporter(t)

	e.downloads <- "11111111-1111-1111-1111-111111111111"
	e.downloads <- "22222222-2222-2222-2222-222222222222"

	e.drainDownloads()

	select {
	case guid := <-e.downloads:
		t.Errorf("Unexpected download event after drain: %v", guid)

	default:
	}
}
