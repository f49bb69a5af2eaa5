package convert

import (
	"fmt"
	"time"

	"github.com/mgpai22/bcutsrt/internal/draft"
	"github.com/mgpai22/bcutsrt/internal/logging"
	"github.com/mgpai22/bcutsrt/internal/subtitle"
)

// outcome of one conversion
type Result struct {
	// project file that was rewritten in place
	Path         string
	Schema       draft.Schema
	Entries      int
	TrackCreated bool
}

// true when the subtitle file held no cues and the track was only cleared
func (r Result) Empty() bool {
	return r.Entries == 0
}

type Options struct {
	// fail with draft.ErrTrackNotFound instead of creating a subtitle track
	StrictTrack bool
	Logger      *logging.Logger
	// defaults to time.Now
	Clock func() time.Time
}

// Engine writes parsed subtitles into a project file.
type Engine struct {
	opts   Options
	logger *logging.Logger
}

func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{opts: opts, logger: logger}
}

// Convert replaces the subtitle track of documentPath with the cues of
// subtitlePath and rewrites documentPath in place. The file is written only
// after every entry has been built, so a failure leaves it untouched.
func (e *Engine) Convert(documentPath, subtitlePath string) (Result, error) {
	adapterOpts := []draft.Option{
		draft.WithStrictTrack(e.opts.StrictTrack),
		draft.WithLogger(e.logger),
	}
	if e.opts.Clock != nil {
		adapterOpts = append(adapterOpts, draft.WithClock(e.opts.Clock))
	}
	adapter := draft.NewAdapter(documentPath, adapterOpts...)

	if _, err := adapter.Load(); err != nil {
		return Result{}, err
	}

	track, err := adapter.SubtitleTrack()
	if err != nil {
		return Result{}, err
	}
	template := track.Template()

	records, err := subtitle.Open(subtitlePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse subtitle file %s: %w", subtitlePath, err)
	}

	e.logger.Infow("Parsed subtitle file",
		"path", subtitlePath,
		"entries", len(records),
		"schema", adapter.Schema().String(),
		"template", templateSource(template),
	)

	entries := make([]draft.Entry, 0, len(records))
	for _, rec := range records {
		entry, err := adapter.BuildEntry(rec, template)
		if err != nil {
			return Result{}, err
		}
		entries = append(entries, entry)
	}

	if err := adapter.SetEntries(track, entries); err != nil {
		return Result{}, err
	}
	if err := adapter.Persist(); err != nil {
		return Result{}, err
	}

	result := Result{
		Path:         documentPath,
		Schema:       adapter.Schema(),
		Entries:      len(entries),
		TrackCreated: track.Created,
	}
	if result.Empty() {
		e.logger.Warnw("Subtitle file has no cues, subtitle track cleared",
			"subtitle", subtitlePath,
			"document", documentPath,
		)
	}
	return result, nil
}

func templateSource(template draft.Entry) string {
	if template == nil {
		return "default"
	}
	return "existing"
}
