package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	filePrefix         = "cvdrisk-"
	fileSuffix         = ".log"
	defaultMaxFileSize = 100 * 1024 * 1024
	cleanupInterval    = 24 * time.Hour
)

var numberedFileRe = regexp.MustCompile(`^` + filePrefix + `\d{4}-W\d{2}_(\d{2})\` + fileSuffix + `$`)

// RotatingLogger is an io.Writer over weekly log files. A week's file is
// split into numbered parts once it reaches maxFileSize, and files older
// than the retention window are removed once a day.
type RotatingLogger struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	currentSize atomic.Int64

	ctx         context.Context
	cancel      context.CancelFunc
	cleanupOnce sync.Once
	cleanupDone chan struct{}
}

// NewRotatingLogger creates a rotating logger with the default 100MB part size
func NewRotatingLogger(logDir string, retentionWeeks int) *RotatingLogger {
	return NewRotatingLoggerWithSizeLimit(logDir, retentionWeeks, defaultMaxFileSize)
}

// NewRotatingLoggerWithSizeLimit creates a rotating logger. A maxFileSize of
// zero disables size rotation.
func NewRotatingLoggerWithSizeLimit(logDir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}
}

// getWeekKey returns the ISO week of t as YYYY-Www
func getWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func baseFileName(week string) string {
	return filePrefix + week + fileSuffix
}

func numberedFileName(week string, n int) string {
	return fmt.Sprintf("%s%s_%02d%s", filePrefix, week, n, fileSuffix)
}

// doRotate opens the file to write for week. Caller must hold mu.
func (rl *RotatingLogger) doRotate(week string) error {
	if rl.currentFile != nil {
		_ = rl.currentFile.Close()
		rl.currentFile = nil
	}

	full := rl.maxFileSize > 0 && rl.currentSize.Load() >= rl.maxFileSize
	name, fresh := rl.pickFile(week, full)

	path := filepath.Join(rl.logDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.currentFile = file
	rl.currentWeek = week
	rl.currentSize.Store(0)
	if !fresh {
		if info, err := file.Stat(); err == nil {
			rl.currentSize.Store(info.Size())
		}
	}
	return nil
}

// pickFile chooses the file for week. fresh reports a new numbered part.
func (rl *RotatingLogger) pickFile(week string, currentFull bool) (name string, fresh bool) {
	base := baseFileName(week)
	if !currentFull {
		info, err := os.Stat(filepath.Join(rl.logDir, base))
		if err != nil || rl.maxFileSize == 0 || info.Size() < rl.maxFileSize {
			return base, false
		}
	}

	last, lastSize := rl.lastPart(week)
	if last > 0 && lastSize < rl.maxFileSize {
		return numberedFileName(week, last), false
	}
	return numberedFileName(week, last+1), true
}

// lastPart returns the highest part number written for week and its size.
func (rl *RotatingLogger) lastPart(week string) (int, int64) {
	matches, _ := filepath.Glob(filepath.Join(rl.logDir, filePrefix+week+"_??"+fileSuffix))

	highest, size := 0, int64(0)
	for _, m := range matches {
		sub := numberedFileRe.FindStringSubmatch(filepath.Base(m))
		if len(sub) < 2 {
			continue
		}
		n, _ := strconv.Atoi(sub[1])
		if n <= highest {
			continue
		}
		highest, size = n, 0
		if info, err := os.Stat(m); err == nil {
			size = info.Size()
		}
	}
	return highest, size
}

// Write implements io.Writer
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := getWeekKey(time.Now())
	rotate := rl.currentWeek != week
	if rotate {
		rl.currentSize.Store(0)
	} else if rl.maxFileSize > 0 && rl.currentSize.Load()+int64(len(p)) > rl.maxFileSize {
		rotate = true
		rl.currentSize.Store(rl.maxFileSize)
	}

	if rotate {
		if err := rl.doRotate(week); err != nil {
			return 0, err
		}
	}
	if rl.currentFile == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rl.currentFile.Write(p)
	rl.currentSize.Add(int64(n))
	return n, err
}

// cleanupOldLogs removes log files last modified before the retention window
func (rl *RotatingLogger) cleanupOldLogs() error {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rl.retention)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(rl.logDir, name)) == nil {
			deleted++
		}
	}

	if deleted > 0 {
		// Console only, the file handler may be the caller
		fmt.Fprintf(os.Stderr, "Cleaned up %d old log files\n", deleted)
	}
	return nil
}

// startCleanup runs cleanupOldLogs once a day until Close.
func (rl *RotatingLogger) startCleanup() {
	rl.cleanupOnce.Do(func() {
		go func() {
			defer close(rl.cleanupDone)
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-rl.ctx.Done():
					return
				case <-ticker.C:
					if err := rl.cleanupOldLogs(); err != nil {
						fmt.Fprintf(os.Stderr, "Failed to cleanup old logs: %v\n", err)
					}
				}
			}
		}()
	})
}

// Close stops the cleanup goroutine and closes the current file
func (rl *RotatingLogger) Close() error {
	rl.cancel()

	started := true
	rl.cleanupOnce.Do(func() { started = false })
	if started {
		select {
		case <-rl.cleanupDone:
		case <-time.After(5 * time.Second):
			fmt.Fprintln(os.Stderr, "Warning: log cleanup goroutine did not stop in time")
		}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.currentFile != nil {
		err := rl.currentFile.Close()
		rl.currentFile = nil
		return err
	}
	return nil
}
