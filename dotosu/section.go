package dotosu

import "strings"

type Section int

const (
	secNone Section = iota
	SectionGeneral
	SectionEditor
	SectionMetadata
	SectionDifficulty
	SectionEvents
	SectionTimingPoints
	SectionHitObjects

	sectionCount
)

var sectionNames = [sectionCount]string{
	secNone:             "",
	SectionGeneral:      "General",
	SectionEditor:       "Editor",
	SectionMetadata:     "Metadata",
	SectionDifficulty:   "Difficulty",
	SectionEvents:       "Events",
	SectionTimingPoints: "TimingPoints",
	SectionHitObjects:   "HitObjects",
}

func (s Section) String() string {
	if s <= secNone || s >= sectionCount {
		return "unknown section"
	}
	return "[" + sectionNames[s] + "]"
}

// Recognized reports whether s is one of the seven decoded sections.
func (s Section) Recognized() bool { return s > secNone && s < sectionCount }

// parseHeader reports whether line is a "[Name]" section header and, if so,
// which section it names. Unknown names return secNone with ok == true.
// Matching is exact, the same as the format's own writer produces.
func parseHeader(line string) (sec Section, ok bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return secNone, false
	}
	name := line[1 : len(line)-1]
	for s := SectionGeneral; s < sectionCount; s++ {
		if sectionNames[s] == name {
			return s, true
		}
	}
	return secNone, true
}
