package draft

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Entry is one clip or caption object as raw JSON. Every Entry owns its
// bytes; copies never share backing storage.
type Entry []byte

func (e Entry) Get(path string) gjson.Result {
	return gjson.GetBytes(e, path)
}

func (e Entry) IsObject() bool {
	return gjson.ParseBytes(e).IsObject()
}

func (e Entry) clone() Entry {
	return Entry(bytes.Clone(e))
}

// field overwrite applied to an entry; numeric keys need a leading ':'
type field struct {
	path  string
	value any
}

// returns a copy of e with fields overwritten in order
func (e Entry) with(fields ...field) (Entry, error) {
	out := []byte(e.clone())
	for _, f := range fields {
		raw, err := marshalValue(f.value)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, f.path, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to set entry field %s: %w", f.path, err)
		}
	}
	return Entry(out), nil
}

// Track is the subtitle track located or created inside a document.
type Track struct {
	// document path of the track object
	Path string
	// entry list field, clips or captions
	Field string
	// entries present when the track was located
	Entries []Entry
	Created bool
}

func (t *Track) EntriesPath() string {
	return t.Path + "." + t.Field
}

// first existing entry, used to carry the user's styling into new entries
func (t *Track) Template() Entry {
	if len(t.Entries) == 0 || !t.Entries[0].IsObject() {
		return nil
	}
	return t.Entries[0].clone()
}

// IDGenerator hands out m_id values: a wall clock seed in epoch
// milliseconds advanced by a per-run counter. The seed never starts below an
// id already used in the document.
type IDGenerator struct {
	last int64
}

func NewIDGenerator(seedMillis, maxExisting int64) *IDGenerator {
	if seedMillis < maxExisting {
		seedMillis = maxExisting
	}
	return &IDGenerator{last: seedMillis}
}

func (g *IDGenerator) Next() int64 {
	g.last++
	return g.last
}
