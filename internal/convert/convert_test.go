package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgpai22/bcutsrt/internal/draft"
	"github.com/mgpai22/bcutsrt/internal/logging"
	"github.com/mgpai22/bcutsrt/internal/subtitle"
	"github.com/tidwall/gjson"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const twoCues = "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n2\n00:00:03,000 --> 00:00:04,000\nWorld\n"

const styledLegacyDoc = `{
    "trackCount": 2,
    "tracks": [
        {"BTrackType": 1, "trackIndex": 1, "clips": [{"m_id": 10}]},
        {"BTrackType": 0, "trackIndex": 2, "clips": [
            {"10093": -65536, "10105": "站酷快乐体", "AssetInfo": {"content": "旧字幕", "duration": 500, "fontSrcPath": "/fonts/kuaile.ttf"}, "m_id": 11, "inPoint": 100, "outPoint": 600},
            {"AssetInfo": {"content": "second old"}, "m_id": 12}
        ]}
    ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newEngine() *Engine {
	return NewEngine(Options{Clock: func() time.Time { return time.UnixMilli(1700000000000) }})
}

func TestConvertLegacyClonesExistingStyle(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "draft.json", styledLegacyDoc)
	srtPath := writeFile(t, dir, "subs.srt", twoCues)

	res, err := newEngine().Convert(docPath, srtPath)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Path != docPath || res.Entries != 2 || res.Schema != draft.SchemaLegacy || res.TrackCreated {
		t.Fatalf("unexpected result %+v", res)
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	clips := gjson.GetBytes(raw, "tracks.1.clips").Array()
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}

	texts := []string{"Hello", "World"}
	starts := []int64{1000, 3000}
	for i, clip := range clips {
		if clip.Get("10093").Int() != -65536 || clip.Get("10105").String() != "站酷快乐体" {
			t.Errorf("clip %d lost style: %s", i, clip.Raw)
		}
		if clip.Get("AssetInfo.fontSrcPath").String() != "/fonts/kuaile.ttf" {
			t.Errorf("clip %d lost font path", i)
		}
		if clip.Get("AssetInfo.content").String() != texts[i] {
			t.Errorf("clip %d content = %q", i, clip.Get("AssetInfo.content").String())
		}
		if clip.Get("inPoint").Int() != starts[i] || clip.Get("30011").Int() != starts[i] {
			t.Errorf("clip %d start not written: %s", i, clip.Raw)
		}
		if id := clip.Get("m_id").Int(); id == 10 || id == 11 || id == 12 {
			t.Errorf("clip %d reused an existing m_id", i)
		}
	}
	if clips[0].Get("m_id").Int() == clips[1].Get("m_id").Int() {
		t.Errorf("clips share an m_id")
	}
	if gjson.GetBytes(raw, "tracks.0.clips.0.m_id").Int() != 10 {
		t.Errorf("video track changed")
	}
}

func TestConvertCaptionCreatesTrack(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "draft.bjson", `{"timelineWidget": {"timeline": {"captionTracks": []}}}`)
	srtPath := writeFile(t, dir, "subs.srt", twoCues)

	res, err := newEngine().Convert(docPath, srtPath)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.TrackCreated || res.Schema != draft.SchemaCaption || res.Entries != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	raw, _ := os.ReadFile(docPath)
	tracks := gjson.GetBytes(raw, "timelineWidget.timeline.captionTracks").Array()
	if len(tracks) != 1 {
		t.Fatalf("expected exactly 1 caption track, got %d", len(tracks))
	}
	captions := tracks[0].Get("captions").Array()
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(captions))
	}
	if captions[0].Get("captionText").String() != "Hello" || captions[1].Get("captionText").String() != "World" {
		t.Errorf("captions out of order")
	}
	if captions[1].Get("outPoint").Int() != 4000 {
		t.Errorf("outPoint = %d", captions[1].Get("outPoint").Int())
	}
}

func TestConvertEmptySubtitlesClearsTrack(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "draft.json", styledLegacyDoc)
	srtPath := writeFile(t, dir, "empty.srt", "\n\n")

	core, logs := observer.New(zapcore.WarnLevel)
	engine := NewEngine(Options{Logger: logging.New(core)})

	res, err := engine.Convert(docPath, srtPath)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Empty() {
		t.Errorf("expected empty result, got %+v", res)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}

	raw, _ := os.ReadFile(docPath)
	clips := gjson.GetBytes(raw, "tracks.1.clips")
	if !clips.IsArray() || len(clips.Array()) != 0 {
		t.Errorf("expected empty clip list, got %s", clips.Raw)
	}
}

func TestConvertFailuresLeaveFileUntouched(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		subtitle string
		subName  string
		opts     Options
		wantErr  error
	}{
		{
			name:     "malformed document",
			doc:      `{"tracks": [`,
			subtitle: twoCues,
			subName:  "subs.srt",
			wantErr:  draft.ErrMalformedDocument,
		},
		{
			name:     "strict without subtitle track",
			doc:      `{"tracks": [{"BTrackType": 1}]}`,
			subtitle: twoCues,
			subName:  "subs.srt",
			opts:     Options{StrictTrack: true},
			wantErr:  draft.ErrTrackNotFound,
		},
		{
			name:    "missing subtitle file",
			doc:     styledLegacyDoc,
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			docPath := writeFile(t, dir, "draft.json", tt.doc)
			srtPath := filepath.Join(dir, "missing.srt")
			if tt.subName != "" {
				srtPath = writeFile(t, dir, tt.subName, tt.subtitle)
			}

			_, err := NewEngine(tt.opts).Convert(docPath, srtPath)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			raw, _ := os.ReadFile(docPath)
			if string(raw) != tt.doc {
				t.Errorf("document was modified:\n%s", raw)
			}
		})
	}
}

func TestConvertCountAndOrder(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "draft.json", `{"tracks": []}`)

	content := ""
	for i := 0; i < 50; i++ {
		start := time.Duration(i) * time.Second
		content += formatCue(i+1, start, start+500*time.Millisecond, "line")
	}
	srtPath := writeFile(t, dir, "many.srt", content)

	res, err := newEngine().Convert(docPath, srtPath)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Entries != 50 {
		t.Fatalf("expected 50 entries, got %d", res.Entries)
	}

	adapter := draft.NewAdapter(docPath)
	if _, err := adapter.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	recs, err := adapter.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(recs) != 50 {
		t.Fatalf("expected 50 records after reload, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.Start != time.Duration(i)*time.Second || rec.Duration != 500*time.Millisecond {
			t.Errorf("record %d out of order: %+v", i, rec)
		}
	}
}

func formatCue(index int, start, end time.Duration, text string) string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n\n",
		index,
		subtitle.FormatSRTTimestamp(start),
		subtitle.FormatSRTTimestamp(end),
		text,
	)
}
