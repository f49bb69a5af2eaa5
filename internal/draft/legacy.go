package draft

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mgpai22/bcutsrt/internal/subtitle"
	"github.com/tidwall/gjson"
)

const (
	legacyTracksPath = "tracks"
	legacyCountPath  = "trackCount"
	legacyEntryField = "clips"
)

// .json drafts: subtitles live on a top level track with BTrackType 0
type legacyLayout struct{}

func (legacyLayout) field() string { return legacyEntryField }

// title/name-tag tracks share BTrackType 0 but carry MiddleTrack
func (legacyLayout) find(doc *Document) (string, bool, error) {
	tracks := doc.Get(legacyTracksPath)
	if !tracks.Exists() {
		return "", false, nil
	}
	if !tracks.IsArray() {
		return "", false, fmt.Errorf("%w: %s is not an array", ErrMalformedDocument, legacyTracksPath)
	}

	path := ""
	tracks.ForEach(func(key, track gjson.Result) bool {
		kind := track.Get("BTrackType")
		if kind.Type == gjson.Number && kind.Int() == 0 && !track.Get("MiddleTrack").Bool() {
			path = legacyTracksPath + "." + key.String()
			return false
		}
		return true
	})
	return path, path != "", nil
}

// inserts a fresh track at the front and renumbers trackIndex 1..N
func (legacyLayout) create(doc *Document, _ time.Time) (string, error) {
	items := [][]byte{compact(legacyTrackTemplate)}
	for _, track := range doc.Get(legacyTracksPath).Array() {
		items = append(items, []byte(track.Raw))
	}
	if err := doc.SetRaw(legacyTracksPath, rawArray(items)); err != nil {
		return "", err
	}

	for i := range items {
		path := legacyTracksPath + "." + strconv.Itoa(i) + ".trackIndex"
		if err := doc.Set(path, i+1); err != nil {
			return "", err
		}
	}
	if err := doc.Set(legacyCountPath, len(items)); err != nil {
		return "", err
	}
	return legacyTracksPath + ".0", nil
}

func (legacyLayout) defaultEntry(time.Time) (Entry, error) {
	return compact(legacyClipTemplate), nil
}

func (legacyLayout) fill(tmpl Entry, rec subtitle.Record, ids *IDGenerator) (Entry, error) {
	start := rec.Start.Milliseconds()
	end := rec.End.Milliseconds()
	duration := rec.Duration.Milliseconds()

	return tmpl.with(
		field{":30011", start},
		field{":30012", duration},
		field{":30021", start},
		field{"duration", duration},
		field{"inPoint", start},
		field{"outPoint", end},
		field{"trimIn", 0},
		field{"trimOut", duration},
		field{"AssetInfo.content", rec.Text},
		field{"AssetInfo.duration", duration},
		field{"m_id", ids.Next()},
	)
}

func (legacyLayout) maxID(doc *Document) int64 {
	var highest int64
	for _, track := range doc.Get(legacyTracksPath).Array() {
		for _, clip := range track.Get(legacyEntryField).Array() {
			if id := clip.Get("m_id").Int(); id > highest {
				highest = id
			}
		}
	}
	return highest
}

func (legacyLayout) record(e Entry) subtitle.Record {
	return subtitle.Record{
		Start: time.Duration(e.Get("inPoint").Int()) * time.Millisecond,
		End:   time.Duration(e.Get("outPoint").Int()) * time.Millisecond,
		Text:  e.Get("AssetInfo.content").String(),
	}
}
