package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits поднимает лимит открытых файлов для пакетной обработки.
func InitResourceLimits(log zerolog.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("could not read open file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("could not raise open file limit")
		return
	}
	log.Debug().Uint64("nofile", uint64(rLimit.Cur)).Msg("open file limit raised")
}

// MaxWorkers ограничивает число параллельных задач ядрами CPU и свободной
// памятью. perItem оценивает память одной задачи в байтах; 0 отключает
// проверку памяти.
func MaxWorkers(requested int, perItem uint64) int {
	workers := requested
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if perItem > 0 {
		if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
			if byMem := int(vm.Available / perItem); byMem < workers {
				workers = byMem
			}
		}
	}

	return max(workers, 1)
}

// FindLatest возвращает самый свежий по времени изменения файл в dir
// с одним из расширений exts.
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files in %s", strings.Join(exts, "/"), dir)
	}

	return latestFile, nil
}

// FindLatestImage принимает файл или директорию. Для файла ищет в его директории.
func FindLatestImage(path string, exts []string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}
	return FindLatest(searchDir, exts...)
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
