package draft

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mgpai22/bcutsrt/internal/subtitle"
)

const (
	captionTracksPath = "timelineWidget.timeline.captionTracks"
	captionEntryField = "captions"
)

// .bjson drafts: subtitles live on the first caption track of the timeline
type captionLayout struct{}

func (captionLayout) field() string { return captionEntryField }

func (captionLayout) find(doc *Document) (string, bool, error) {
	tracks := doc.Get(captionTracksPath)
	if !tracks.Exists() {
		return "", false, nil
	}
	if !tracks.IsArray() {
		return "", false, fmt.Errorf("%w: %s is not an array", ErrMalformedDocument, captionTracksPath)
	}
	if len(tracks.Array()) == 0 {
		return "", false, nil
	}
	return captionTracksPath + ".0", true, nil
}

// appends a new caption track, creating the timeline path when absent
func (captionLayout) create(doc *Document, now time.Time) (string, error) {
	existing := doc.Get(captionTracksPath).Array()
	index := len(existing)

	track, err := compact(captionTrackTemplate).with(
		field{"idString", "new_caption_track_" + strconv.FormatInt(now.UnixMilli(), 10)},
		field{"index", index},
	)
	if err != nil {
		return "", err
	}

	items := make([][]byte, 0, index+1)
	for _, t := range existing {
		items = append(items, []byte(t.Raw))
	}
	items = append(items, track)
	if err := doc.SetRaw(captionTracksPath, rawArray(items)); err != nil {
		return "", err
	}
	return captionTracksPath + "." + strconv.Itoa(index), nil
}

// idString and uid are stamped once per default template, not per caption
func (captionLayout) defaultEntry(now time.Time) (Entry, error) {
	millis := now.UnixMilli()
	return compact(captionTemplate).with(
		field{"idString", "caption_" + strconv.FormatInt(millis, 10)},
		field{"uid", millis},
	)
}

func (captionLayout) fill(tmpl Entry, rec subtitle.Record, _ *IDGenerator) (Entry, error) {
	duration := rec.Duration.Milliseconds()

	return tmpl.with(
		field{"captionText", rec.Text},
		field{"assetInfo.content", rec.Text},
		field{"assetInfo.duration", duration},
		field{"inPoint", rec.Start.Milliseconds()},
		field{"outPoint", rec.End.Milliseconds()},
	)
}

func (captionLayout) maxID(*Document) int64 { return 0 }

func (captionLayout) record(e Entry) subtitle.Record {
	text := e.Get("captionText")
	if !text.Exists() {
		text = e.Get("assetInfo.content")
	}
	return subtitle.Record{
		Start: time.Duration(e.Get("inPoint").Int()) * time.Millisecond,
		End:   time.Duration(e.Get("outPoint").Int()) * time.Millisecond,
		Text:  text.String(),
	}
}
