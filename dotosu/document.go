package dotosu

import "fmt"

// LatestVersion is the newest format revision; new documents start at it.
const LatestVersion = 14

// Document is the decoded content of one .osu file.
type Document struct {
	Version      int                `json:"version"`
	General      map[string]Value   `json:"general"`
	Editor       map[string]Value   `json:"editor"`
	Metadata     map[string]Value   `json:"metadata"`
	Difficulty   map[string]float64 `json:"difficulty"`
	Events       [][]string         `json:"events"`
	TimingPoints [][]Value          `json:"timing_points"`
	HitObjects   []string           `json:"hit_objects"`
}

// DefaultGeneral returns a fresh copy of the [General] defaults.
func DefaultGeneral() map[string]Value {
	return map[string]Value{
		"AudioLeadIn":              Int(0),
		"PreviewTime":              Int(-1),
		"Countdown":                Int(1),
		"SampleSet":                String("Normal"),
		"StackLeniency":            Float(0.7),
		"Mode":                     Int(0),
		"LetterboxInBreaks":        Int(0),
		"StoryFireInFront":         Int(1),
		"UseSkinSprites":           Int(0),
		"AlwaysShowPlayfield":      Int(0),
		"OverlayPosition":          String("NoChange"),
		"EpilepsyWarning":          Int(0),
		"CountdownOffset":          Int(0),
		"SpecialStyle":             Int(0),
		"WidescreenStoryboard":     Int(0),
		"SamplesMatchPlaybackRate": Int(0),
	}
}

// NewDocument returns an empty document with its own containers and the
// [General] defaults filled in.
func NewDocument() *Document {
	return &Document{
		Version:      LatestVersion,
		General:      DefaultGeneral(),
		Editor:       map[string]Value{},
		Metadata:     map[string]Value{},
		Difficulty:   map[string]float64{},
		Events:       [][]string{},
		TimingPoints: [][]Value{},
		HitObjects:   []string{},
	}
}

// SetID is the beatmap set identifier (Metadata BeatmapSetID).
func (d *Document) SetID() (int64, bool) { return d.metadataInt("BeatmapSetID") }

// ItemID is the difficulty identifier (Metadata BeatmapID).
func (d *Document) ItemID() (int64, bool) { return d.metadataInt("BeatmapID") }

func (d *Document) metadataInt(key string) (int64, bool) {
	v, ok := d.Metadata[key]
	if !ok {
		return 0, false
	}
	return v.Int()
}

func (d *Document) String() string {
	meta := func(k string) string { return d.Metadata[k].String() }
	return fmt.Sprintf("%s By %s Mapper: %s BeatmapSet: %s/%s",
		meta("Title"), meta("Artist"), meta("Creator"), meta("BeatmapSetID"), meta("BeatmapID"))
}
