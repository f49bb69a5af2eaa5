package draft

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mgpai22/bcutsrt/internal/logging"
	"github.com/mgpai22/bcutsrt/internal/subtitle"
)

var (
	ErrMalformedDocument = errors.New("malformed project document")
	ErrTrackNotFound     = errors.New("subtitle track not found")
	ErrNotLoaded         = errors.New("project document not loaded")
)

// schema specific knowledge: where the subtitle track lives and how its
// entries are shaped
type layout interface {
	field() string
	find(doc *Document) (string, bool, error)
	create(doc *Document, now time.Time) (string, error)
	defaultEntry(now time.Time) (Entry, error)
	fill(tmpl Entry, rec subtitle.Record, ids *IDGenerator) (Entry, error)
	maxID(doc *Document) int64
	record(e Entry) subtitle.Record
}

// Adapter edits one project file. Calls go Load, SubtitleTrack,
// BuildEntry/SetEntries, then Persist.
type Adapter struct {
	path   string
	schema Schema
	layout layout
	strict bool
	now    func() time.Time
	logger *logging.Logger

	doc          *Document
	ids          *IDGenerator
	defaultEntry Entry
}

type Option func(*Adapter)

// never fabricate a subtitle track; SubtitleTrack returns ErrTrackNotFound
func WithStrictTrack(strict bool) Option {
	return func(a *Adapter) { a.strict = strict }
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func WithLogger(logger *logging.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAdapter(path string, opts ...Option) *Adapter {
	schema := Detect(path)
	a := &Adapter{
		path:   path,
		schema: schema,
		layout: schema.layout(),
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Path() string { return a.path }

func (a *Adapter) Schema() Schema { return a.schema }

// reads and validates the project file
func (a *Adapter) Load() (*Document, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.path, err)
	}

	a.doc = doc
	a.ids = NewIDGenerator(a.now().UnixMilli(), a.layout.maxID(doc))
	a.defaultEntry = nil

	a.logger.Debugw("Loaded project file",
		"path", a.path,
		"schema", a.schema.String(),
		"bytes", len(data),
	)
	return doc, nil
}

// Document returns the loaded document, nil before Load.
func (a *Adapter) Document() *Document { return a.doc }

// SubtitleTrack locates the subtitle track, creating it unless strict.
func (a *Adapter) SubtitleTrack() (*Track, error) {
	if a.doc == nil {
		return nil, ErrNotLoaded
	}

	path, ok, err := a.layout.find(a.doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.path, err)
	}
	if ok {
		track := &Track{Path: path, Field: a.layout.field()}
		for _, raw := range a.doc.Get(track.EntriesPath()).Array() {
			track.Entries = append(track.Entries, Entry(raw.Raw).clone())
		}
		return track, nil
	}

	if a.strict {
		return nil, fmt.Errorf("%s: %w", a.path, ErrTrackNotFound)
	}

	path, err = a.layout.create(a.doc, a.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create subtitle track: %w", err)
	}
	a.logger.Debugw("Created subtitle track",
		"path", path,
		"schema", a.schema.String(),
	)
	return &Track{Path: path, Field: a.layout.field(), Created: true}, nil
}

// BuildEntry copies template, or the built-in default when template is nil,
// and writes the record's timing and text into the copy.
func (a *Adapter) BuildEntry(rec subtitle.Record, template Entry) (Entry, error) {
	if a.doc == nil {
		return nil, ErrNotLoaded
	}

	if template == nil {
		if a.defaultEntry == nil {
			def, err := a.layout.defaultEntry(a.now())
			if err != nil {
				return nil, err
			}
			a.defaultEntry = def
		}
		template = a.defaultEntry
	}

	entry, err := a.layout.fill(template, rec, a.ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build entry for cue %d: %w", rec.Index, err)
	}
	return entry, nil
}

// SetEntries replaces the track's entry list.
func (a *Adapter) SetEntries(track *Track, entries []Entry) error {
	if a.doc == nil {
		return ErrNotLoaded
	}

	items := make([][]byte, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	return a.doc.SetRaw(track.EntriesPath(), rawArray(items))
}

// Persist overwrites the project file with the whole document.
func (a *Adapter) Persist() error {
	if a.doc == nil {
		return ErrNotLoaded
	}
	if err := os.WriteFile(a.path, a.doc.Pretty(), 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Records reads the subtitle track back as records without modifying the
// document. A document without a subtitle track has no records.
func (a *Adapter) Records() ([]subtitle.Record, error) {
	if a.doc == nil {
		return nil, ErrNotLoaded
	}

	path, ok, err := a.layout.find(a.doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.path, err)
	}
	records := []subtitle.Record{}
	if !ok {
		return records, nil
	}

	for i, raw := range a.doc.Get(path + "." + a.layout.field()).Array() {
		rec := a.layout.record(Entry(raw.Raw))
		rec.Index = i + 1
		rec.Duration = rec.End - rec.Start
		records = append(records, rec)
	}
	return records, nil
}
