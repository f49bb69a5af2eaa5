package draft

import (
	_ "embed"

	"github.com/tidwall/pretty"
)

// default entries and tracks as Bcut writes them; values are opaque and kept verbatim

//go:embed templates/legacy_clip.json
var legacyClipTemplate []byte

//go:embed templates/legacy_track.json
var legacyTrackTemplate []byte

//go:embed templates/caption.json
var captionTemplate []byte

//go:embed templates/caption_track.json
var captionTrackTemplate []byte

// compacted copy of an embedded template
func compact(raw []byte) Entry {
	return Entry(pretty.Ugly(raw))
}
