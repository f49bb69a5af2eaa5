package draft

import "path/filepath"

// project file layout, chosen by file extension
type Schema int

const (
	// .json drafts: top level tracks with clips
	SchemaLegacy Schema = iota
	// .bjson drafts: timelineWidget.timeline.captionTracks with captions
	SchemaCaption
)

func (s Schema) String() string {
	switch s {
	case SchemaCaption:
		return "caption"
	default:
		return "legacy"
	}
}

// Detect picks the schema from the file extension alone. Only an exact
// ".bjson" suffix selects the caption schema.
func Detect(path string) Schema {
	if filepath.Ext(path) == ".bjson" {
		return SchemaCaption
	}
	return SchemaLegacy
}

func (s Schema) layout() layout {
	if s == SchemaCaption {
		return captionLayout{}
	}
	return legacyLayout{}
}
