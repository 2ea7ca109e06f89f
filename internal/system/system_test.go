package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	files := []struct {
		name string
		age  time.Duration
	}{
		{"old.png", 3 * time.Hour},
		{"new.JPG", time.Hour},
		{"newest.txt", 0},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mt := now.Add(-f.age)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindLatest(dir, ".png", ".jpg")
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if filepath.Base(got) != "new.JPG" {
		t.Errorf("FindLatest = %s, want new.JPG", got)
	}

	got, err = FindLatestImage(filepath.Join(dir, "old.png"), []string{".png"})
	if err != nil {
		t.Fatalf("FindLatestImage failed: %v", err)
	}
	if filepath.Base(got) != "old.png" {
		t.Errorf("FindLatestImage = %s, want old.png", got)
	}

	if _, err := FindLatest(dir, ".webp"); err == nil {
		t.Error("expected error for missing extension")
	}
}

func TestMaxWorkers(t *testing.T) {
	if got := MaxWorkers(3, 0); got != 3 {
		t.Errorf("MaxWorkers(3, 0) = %d, want 3", got)
	}
	if got := MaxWorkers(0, 0); got < 1 {
		t.Errorf("MaxWorkers(0, 0) = %d, want >= 1", got)
	}
	if _, err := mem.VirtualMemory(); err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}
	if got := MaxWorkers(8, 1<<62); got != 1 {
		t.Errorf("MaxWorkers with huge items = %d, want 1", got)
	}
}

func TestImagePool(t *testing.T) {
	rect := image.Rect(0, 0, 16, 8)
	img := GetImage(rect)
	if img.Rect != rect {
		t.Fatalf("GetImage rect = %v, want %v", img.Rect, rect)
	}
	PutImage(img)
	PutImage(nil)

	again := GetImage(rect)
	if again.Rect != rect || len(again.Pix) != 16*8*4 {
		t.Errorf("pooled image has rect %v and %d bytes", again.Rect, len(again.Pix))
	}
}
