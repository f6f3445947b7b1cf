package fsx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	appendLockTimeout    = 30 * time.Second
	appendLockRetry      = 10 * time.Millisecond
	appendLockStaleAfter = 2 * time.Minute
)

// WriteFileAtomic writes content to path via a temp file, fsync and rename so
// readers never observe a partially written decision record.
func WriteFileAtomic(path string, content []byte, mode os.FileMode) error {
	parent := filepath.Dir(path)
	base := filepath.Base(path)

	tempFile, err := os.CreateTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS != "windows" {
			return fmt.Errorf("rename temp file: %w", err)
		}
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("remove destination before rename: %w", removeErr)
		}
		if renameErr := os.Rename(tempPath, path); renameErr != nil {
			return fmt.Errorf("rename temp file after remove: %w", renameErr)
		}
	}
	cleanup = false

	// #nosec G304 -- parent directory path is derived from explicit caller-provided destination path.
	if dirHandle, err := os.Open(parent); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}
	return nil
}

// AppendLineLocked appends exactly one line to a file with a cross-process
// lock. The caller provides raw bytes for one record; a trailing newline is
// added and the file fsynced before returning.
func AppendLineLocked(path string, line []byte, mode os.FileMode) error {
	cleanPath, err := validatePath(path)
	if err != nil {
		return err
	}
	parent := filepath.Dir(cleanPath)
	if parent != "." && parent != "" {
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return fmt.Errorf("create append directory: %w", err)
		}
	}
	payload := make([]byte, 0, len(line)+1)
	payload = append(payload, line...)
	payload = append(payload, '\n')

	return withAppendLock(cleanPath, func() error {
		// #nosec G304 -- append path is validated local relative or absolute.
		file, openErr := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
		if openErr != nil {
			return fmt.Errorf("open append file: %w", openErr)
		}
		defer func() {
			_ = file.Close()
		}()
		if _, writeErr := file.Write(payload); writeErr != nil {
			return fmt.Errorf("append file line: %w", writeErr)
		}
		if syncErr := file.Sync(); syncErr != nil {
			return fmt.Errorf("sync append file: %w", syncErr)
		}
		return nil
	})
}

func withAppendLock(path string, fn func() error) error {
	lockPath := path + ".lock"
	start := time.Now()
	for {
		// #nosec G304 -- lock path is derived from a validated append path.
		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_ = lockFile.Close()
			defer func() {
				_ = os.Remove(lockPath)
			}()
			return fn()
		}
		if !os.IsExist(err) {
			return fmt.Errorf("acquire append lock: %w", err)
		}
		if lockIsStale(lockPath, time.Now().UTC()) {
			_ = os.Remove(lockPath)
			continue
		}
		if time.Since(start) >= appendLockTimeout {
			return fmt.Errorf("append lock timeout")
		}
		time.Sleep(appendLockRetry)
	}
}

func lockIsStale(lockPath string, now time.Time) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false
	}
	return now.Sub(info.ModTime().UTC()) > appendLockStaleAfter
}

func validatePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsLocal(cleanPath) {
		return cleanPath, nil
	}
	if strings.HasPrefix(cleanPath, string(filepath.Separator)) {
		return cleanPath, nil
	}
	if volume := filepath.VolumeName(cleanPath); volume != "" && strings.HasPrefix(cleanPath, volume+string(filepath.Separator)) {
		return cleanPath, nil
	}
	return "", fmt.Errorf("path must be local relative or absolute")
}
