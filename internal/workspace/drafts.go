package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

const manifestName = "draftInfo.json"

var (
	ErrDirectoryNotFound   = errors.New("draft directory not found")
	ErrManifestMissing     = errors.New("draft manifest not found")
	ErrManifestEmpty       = errors.New("draft manifest lists no drafts")
	ErrManifestMalformed   = errors.New("draft manifest is malformed")
	ErrDraftNotFound       = errors.New("draft not found")
	ErrProjectFileNotFound = errors.New("no project file in draft")
)

// one project as listed in draftInfo.json
type Draft struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// epoch milliseconds
	ModifyTime int64 `json:"modifyTime"`
}

func (d Draft) Modified() time.Time {
	return time.UnixMilli(d.ModifyTime)
}

type manifest struct {
	DraftInfos []Draft `json:"draftInfos"`
}

// Drafts is the Bcut draft directory and its manifest, newest draft first.
type Drafts struct {
	dir    string
	drafts []Draft
}

// default draft directory for the host, empty when unknown
func DefaultDraftsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "Documents", "Bcut Drafts")
	case "darwin":
		return filepath.Join(home, "Movies", "Bcut Drafts")
	default:
		return ""
	}
}

// OpenDrafts reads dir/draftInfo.json.
func OpenDrafts(dir string) (*Drafts, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no directory configured for %s", ErrDirectoryNotFound, runtime.GOOS)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	path := filepath.Join(dir, manifestName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestMalformed, path, err)
	}
	if len(m.DraftInfos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrManifestEmpty, path)
	}

	sort.SliceStable(m.DraftInfos, func(i, j int) bool {
		return m.DraftInfos[i].ModifyTime > m.DraftInfos[j].ModifyTime
	})

	return &Drafts{dir: dir, drafts: m.DraftInfos}, nil
}

func (d *Drafts) Dir() string { return d.dir }

// drafts sorted by modification time, newest first
func (d *Drafts) List() []Draft {
	return append([]Draft(nil), d.drafts...)
}

func (d *Drafts) Find(id string) (Draft, error) {
	for _, draft := range d.drafts {
		if draft.ID == id {
			return draft, nil
		}
	}
	return Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
}

// LatestProjectFile returns the most recently modified .json or .bjson file
// in the draft's directory.
func (d *Drafts) LatestProjectFile(id string) (string, error) {
	draftDir := filepath.Join(d.dir, id)
	if info, err := os.Stat(draftDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, draftDir)
	}

	path, err := newestFile(draftDir, ".json", ".bjson")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrProjectFileNotFound, draftDir)
	}
	return path, nil
}

// name (MM-DD HH:MM)
func Describe(d Draft) string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Modified().Format("01-02 15:04"))
}

// newest regular file in dir with one of the extensions, empty when none
func newestFile(dir string, exts ...string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var (
		newest  string
		newestT time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestT) {
			newest = filepath.Join(dir, entry.Name())
			newestT = info.ModTime()
		}
	}
	return newest, nil
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
