package ioutils

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created inside a locked directory.
const LockFileName = ".vocal-isolator.lock"

// ErrDirLocked is returned by LockDir when another process holds the lock.
var ErrDirLocked = errors.New("directory is locked by another run")

// DirLock is an advisory lock on a directory.
type DirLock struct {
	path string
	lock *flock.Flock
}

// LockDir takes an exclusive, non-blocking lock on dir.
//
// The directory must already exist. The lock file is left in place on
// Unlock; only the OS lock is released.
//
// Example:
//
//	lock, err := LockDir(outputDir)
//	if err != nil {
//	    return err
//	}
//	defer lock.Unlock()
func LockDir(dir string) (*DirLock, error) {
	path := filepath.Join(dir, LockFileName)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrDirLocked)
	}
	return &DirLock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *DirLock) Path() string {
	return l.path
}

// Unlock releases the lock. It is safe to call more than once.
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
