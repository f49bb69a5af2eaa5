package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrSubtitleFileNotFound = errors.New("no subtitle file found")

const stampLayout = "20060102_150405"

// Staging is the local work area: subtitles waiting in input/, project
// backups in backup/, consumed subtitles in completed/.
type Staging struct {
	InputDir     string
	BackupDir    string
	CompletedDir string
	now          func() time.Time
}

func NewStaging(root string) *Staging {
	return &Staging{
		InputDir:     filepath.Join(root, "input"),
		BackupDir:    filepath.Join(root, "backup"),
		CompletedDir: filepath.Join(root, "completed"),
		now:          time.Now,
	}
}

// creates the three directories
func (s *Staging) Ensure() error {
	for _, dir := range []string{s.InputDir, s.BackupDir, s.CompletedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// most recently modified subtitle file (.srt, .vtt, .ass) in the input area
func (s *Staging) LatestSubtitle() (string, error) {
	path, err := newestFile(s.InputDir, ".srt", ".vtt", ".ass", ".ssa")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w in %s", ErrSubtitleFileNotFound, s.InputDir)
	}
	return path, nil
}

// Backup copies path into the backup area as <stem>_<timestamp><ext>.
func (s *Staging) Backup(path string) (string, error) {
	if err := os.MkdirAll(s.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.BackupDir, err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	dst := filepath.Join(s.BackupDir, stem+"_"+s.now().Format(stampLayout)+ext)

	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return dst, nil
}

// Complete moves a consumed subtitle file into the completed area, adding a
// timestamp when the name is taken.
func (s *Staging) Complete(path string) (string, error) {
	if err := os.MkdirAll(s.CompletedDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.CompletedDir, err)
	}

	name := filepath.Base(path)
	dst := filepath.Join(s.CompletedDir, name)
	if _, err := os.Stat(dst); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		dst = filepath.Join(s.CompletedDir, stem+"_"+s.now().Format(stampLayout)+ext)
	}

	if err := os.Rename(path, dst); err != nil {
		// rename fails across devices
		if err := copyFile(path, dst); err != nil {
			return "", fmt.Errorf("failed to move %s: %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return dst, nil
}

// copies content and modification time
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
