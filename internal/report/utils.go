package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/textscrub/internal/system"
)

// GeneratePath creates a timestamped report filename in dir
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("regions_%s.yaml", timestamp))
}

// FindLatest finds the most recent report file in dir
func FindLatest(dir string) (string, error) {
	return system.FindLatest(dir, ".yaml", ".yml")
}
