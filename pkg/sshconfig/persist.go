package sshconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileMode is the only permission set a generated fragment may carry.
const FileMode os.FileMode = 0o600

// EnvProfileLabel names the fragment written when credentials come from the
// environment rather than a named profile.
const EnvProfileLabel = "env"

// PersistenceError is returned when the fragment cannot be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persist truncates or creates path with mode 0600 and writes artifact to it.
// The mode is applied to the open handle as well, so neither the umask nor a
// pre-existing file's bits survive.
func Persist(artifact []byte, path string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &PersistenceError{Path: path, Err: cerr}
		}
	}()

	if err := f.Chmod(FileMode); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	if _, err := f.Write(artifact); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

// DefaultPath returns ~/.ssh/ssmhosts/<label>.conf for the given profile
// label, creating the directory (0700) if needed.
func DefaultPath(profileLabel string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &PersistenceError{Path: "~", Err: err}
	}
	return PathIn(filepath.Join(home, ".ssh", "ssmhosts"), profileLabel)
}

// PathIn is DefaultPath rooted at dir.
func PathIn(dir, profileLabel string) (string, error) {
	if profileLabel == "" {
		profileLabel = EnvProfileLabel
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", &PersistenceError{Path: dir, Err: err}
	}
	return filepath.Join(dir, filepath.Base(profileLabel)+".conf"), nil
}
