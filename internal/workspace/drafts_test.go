package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestOpenDraftsSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, manifestName), `{"draftInfos": [
		{"id": "a", "name": "old", "modifyTime": 1000},
		{"id": "b", "name": "new", "modifyTime": 3000, "extra": true},
		{"id": "c", "name": "mid", "modifyTime": 2000}
	]}`)

	drafts, err := OpenDrafts(dir)
	if err != nil {
		t.Fatalf("OpenDrafts: %v", err)
	}

	var ids []string
	for _, d := range drafts.List() {
		ids = append(ids, d.ID)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	d, err := drafts.Find("c")
	if err != nil || d.Name != "mid" {
		t.Errorf("Find(c) = %+v, %v", d, err)
	}
	if _, err := drafts.Find("zzz"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestOpenDraftsErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest *string
		dir      string
		wantErr  error
	}{
		{name: "no directory", dir: "missing", wantErr: ErrDirectoryNotFound},
		{name: "no manifest", wantErr: ErrManifestMissing},
		{name: "malformed", manifest: ptr(`{"draftInfos": [`), wantErr: ErrManifestMalformed},
		{name: "empty list", manifest: ptr(`{"draftInfos": []}`), wantErr: ErrManifestEmpty},
		{name: "no list", manifest: ptr(`{}`), wantErr: ErrManifestEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.manifest != nil {
				writeFile(t, filepath.Join(dir, manifestName), *tt.manifest)
			}
			if tt.dir != "" {
				dir = filepath.Join(dir, tt.dir)
			}

			_, err := OpenDrafts(dir)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := OpenDrafts(""); !errors.Is(err, ErrDirectoryNotFound) {
		t.Errorf("empty dir: expected ErrDirectoryNotFound, got %v", err)
	}
}

func ptr(s string) *string { return &s }

func TestLatestProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, manifestName), `{"draftInfos": [{"id": "p1", "name": "vlog", "modifyTime": 1}, {"id": "p2", "name": "empty", "modifyTime": 2}]}`)

	base := time.Now().Add(-time.Hour)
	files := map[string]time.Duration{
		"p1/11-44-04-256.json":  0,
		"p1/12-00-00-000.bjson": 2 * time.Minute,
		"p1/notes.txt":          5 * time.Minute,
	}
	for name, offset := range files {
		path := filepath.Join(dir, name)
		writeFile(t, path, "{}")
		touch(t, path, base.Add(offset))
	}
	if err := os.MkdirAll(filepath.Join(dir, "p2"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	drafts, err := OpenDrafts(dir)
	if err != nil {
		t.Fatalf("OpenDrafts: %v", err)
	}

	got, err := drafts.LatestProjectFile("p1")
	if err != nil {
		t.Fatalf("LatestProjectFile: %v", err)
	}
	if want := filepath.Join(dir, "p1", "12-00-00-000.bjson"); got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	if _, err := drafts.LatestProjectFile("p2"); !errors.Is(err, ErrProjectFileNotFound) {
		t.Errorf("expected ErrProjectFileNotFound, got %v", err)
	}
	if _, err := drafts.LatestProjectFile("p3"); !errors.Is(err, ErrDirectoryNotFound) {
		t.Errorf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	mod := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)
	d := Draft{ID: "x", Name: "还活着", ModifyTime: mod.UnixMilli()}

	if got, want := Describe(d), "还活着 (03-09 14:05)"; got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}
