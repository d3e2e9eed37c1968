package dotosu

import (
	"strconv"
	"strings"
)

// boolFlags are the [General] keys coerced to Bool.
var boolFlags = map[string]bool{
	"LetterboxInBreaks":        true,
	"StoryFireInFront":         true,
	"UseSkinSprites":           true,
	"AlwaysShowPlayfield":      true,
	"EpilepsyWarning":          true,
	"SpecialStyle":             true,
	"WidescreenStoryboard":     true,
	"SamplesMatchPlaybackRate": true,
}

// timingPointFlagIndex is the "uninherited" column of a timing point.
const timingPointFlagIndex = 6

type handler func(p *Parser, d *Document, body []line) error

var handlers = [sectionCount]handler{
	SectionGeneral:      decodeGeneral,
	SectionEditor:       decodeEditor,
	SectionMetadata:     decodeMetadata,
	SectionDifficulty:   decodeDifficulty,
	SectionEvents:       decodeEvents,
	SectionTimingPoints: decodeTimingPoints,
	SectionHitObjects:   decodeHitObjects,
}

// splitKeyValue splits "key: value", falling back to "key:value".
func splitKeyValue(text string) (key, val string, ok bool) {
	if k, v, found := strings.Cut(text, ": "); found {
		return strings.TrimSpace(k), v, true
	}
	if k, v, found := strings.Cut(text, ":"); found {
		return strings.TrimSpace(k), v, true
	}
	return "", "", false
}

func skipLine(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || strings.HasPrefix(t, "//")
}

// eachKeyValue calls fn for every key/value line of a section body. The
// value is passed on as written, trailing whitespace included.
func eachKeyValue(sec Section, body []line, fn func(key, val string) error) error {
	for _, ln := range body {
		if skipLine(ln.text) {
			continue
		}
		key, val, ok := splitKeyValue(ln.text)
		if !ok {
			return &MalformedFieldError{Section: sec, Line: ln.num, Text: ln.text}
		}
		if err := fn(key, val); err != nil {
			return &MalformedFieldError{Section: sec, Line: ln.num, Text: ln.text, Err: err}
		}
	}
	return nil
}

// decodeGeneral classifies every value first. Flag keys become Bool only
// when the value is not numeric, unless the parser runs in BoolNumeric mode,
// which turns every flag into a Bool.
func decodeGeneral(p *Parser, d *Document, body []line) error {
	return eachKeyValue(SectionGeneral, body, func(key, val string) error {
		v := Classify(val)
		if boolFlags[key] && (v.Kind() == KindString || p.boolMode == BoolNumeric) {
			v = Bool(p.coerceBool(val))
		}
		d.General[key] = v
		return nil
	})
}

func decodeEditor(_ *Parser, d *Document, body []line) error {
	return eachKeyValue(SectionEditor, body, func(key, val string) error {
		v := Classify(val)
		if v.Kind() == KindString && strings.Contains(val, ",") {
			v = List(strings.Split(val, ",")...)
		}
		d.Editor[key] = v
		return nil
	})
}

func decodeMetadata(_ *Parser, d *Document, body []line) error {
	return eachKeyValue(SectionMetadata, body, func(key, val string) error {
		if isDigits(val) {
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				d.Metadata[key] = Int(n)
				return nil
			}
		}
		d.Metadata[key] = String(val)
		return nil
	})
}

func decodeDifficulty(_ *Parser, d *Document, body []line) error {
	return eachKeyValue(SectionDifficulty, body, func(key, val string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return err
		}
		d.Difficulty[key] = f
		return nil
	})
}

func decodeEvents(_ *Parser, d *Document, body []line) error {
	for _, ln := range body {
		if strings.TrimSpace(ln.text) == "" {
			continue
		}
		d.Events = append(d.Events, strings.Split(ln.text, ","))
	}
	return nil
}

func decodeTimingPoints(_ *Parser, d *Document, body []line) error {
	for _, ln := range body {
		if skipLine(ln.text) {
			continue
		}
		parts := strings.Split(ln.text, ",")
		point := make([]Value, len(parts))
		for i, part := range parts {
			v := Classify(part)
			if i == timingPointFlagIndex {
				v = Bool(v.Truthy())
			}
			point[i] = v
		}
		d.TimingPoints = append(d.TimingPoints, point)
	}
	return nil
}

func decodeHitObjects(_ *Parser, d *Document, body []line) error {
	for _, ln := range body {
		if strings.TrimSpace(ln.text) == "" {
			continue
		}
		d.HitObjects = append(d.HitObjects, ln.text)
	}
	return nil
}
