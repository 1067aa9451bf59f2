package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

const filePerm = 0644

// RotatingFile is an append-only log file that rolls over into numbered backups
// (name.log.1 is the newest) once it would grow past maxBytes. After the first failed
// write or rotation the file stays failed and every later Write returns that error.
type RotatingFile struct {
	path        string
	maxBytes    int64
	backupCount int
	onRotate    func()

	mu   sync.Mutex
	file *os.File
	size int64
	err  error
}

// OpenRotatingFile opens path for appending, creating it if needed. Rotation is
// disabled when maxBytes or backupCount is not positive.
func OpenRotatingFile(path string, maxBytes int64, backupCount int) (*RotatingFile, error) {
	f := &RotatingFile{
		path:        path,
		maxBytes:    maxBytes,
		backupCount: backupCount,
	}
	if err := f.open(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the active file path.
func (f *RotatingFile) Path() string {
	return f.path
}

// Write appends p as a single unit, rotating first if p would not fit.
func (f *RotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return 0, f.err
	}
	if f.file == nil {
		return 0, fs.ErrClosed
	}

	if f.shouldRotate(len(p)) {
		if err := f.rotate(); err != nil {
			f.err = err
			return 0, err
		}
	}

	n, err := f.file.Write(p)
	f.size += int64(n)
	if err != nil {
		f.err = fmt.Errorf("failed to write to log file %s: %w", f.path, err)
		return n, f.err
	}
	return n, nil
}

// Rotate forces a rollover regardless of the current size.
func (f *RotatingFile) Rotate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if err := f.rotate(); err != nil {
		f.err = err
		return err
	}
	return nil
}

// Close closes the active file.
func (f *RotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func (f *RotatingFile) shouldRotate(n int) bool {
	if f.maxBytes <= 0 || f.backupCount <= 0 {
		return false
	}
	return f.size > 0 && f.size+int64(n) > f.maxBytes
}

func (f *RotatingFile) rotate() error {
	if f.file != nil {
		_ = f.file.Sync()
		_ = f.file.Close()
		f.file = nil
	}

	if err := os.Remove(f.backupName(f.backupCount)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove oldest backup of %s: %w", f.path, err)
	}
	for i := f.backupCount - 1; i >= 1; i-- {
		if err := os.Rename(f.backupName(i), f.backupName(i+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to shift backup %s: %w", f.backupName(i), err)
		}
	}
	if err := os.Rename(f.path, f.backupName(1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to rotate log file %s: %w", f.path, err)
	}

	if err := f.open(); err != nil {
		return err
	}
	if f.onRotate != nil {
		f.onRotate()
	}
	return nil
}

func (f *RotatingFile) open() error {
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", f.path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file %s: %w", f.path, err)
	}
	f.file = file
	f.size = stat.Size()
	return nil
}

func (f *RotatingFile) backupName(i int) string {
	return fmt.Sprintf("%s.%d", f.path, i)
}
