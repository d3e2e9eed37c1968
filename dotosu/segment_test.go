package dotosu

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func segmentText(t *testing.T, text string) []block {
	t.Helper()
	s := segmenter{lines: strings.Split(text, "\n"), first: 1}
	blocks, err := s.segment()
	if err != nil {
		t.Fatalf("segment() error = %v", err)
	}
	return blocks
}

func bodyText(b block) []string {
	out := make([]string, len(b.body))
	for i, ln := range b.body {
		out[i] = ln.text
	}
	return out
}

func TestSegmentBlankLineInsideEvents(t *testing.T) {
	t.Parallel()

	blocks := segmentText(t, "[Events]\n0,0,bg.jpg\n\nSprite,Foreground\n\n[Metadata]\nTitle:x")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].section != SectionEvents || blocks[1].section != SectionMetadata {
		t.Fatalf("sections = %s, %s", blocks[0].section, blocks[1].section)
	}
	want := []string{"0,0,bg.jpg", "", "Sprite,Foreground"}
	if got := bodyText(blocks[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("events body = %q, want %q", got, want)
	}
}

func TestSegmentSplitsOnRecognizedHeader(t *testing.T) {
	t.Parallel()

	blocks := segmentText(t, "[Events]\n0,0,bg.jpg\n\n[Metadata]\nTitle:x\n\n[HitObjects]\n1,1,1,1,0")
	var got []Section
	for _, b := range blocks {
		got = append(got, b.section)
	}
	want := []Section{SectionEvents, SectionMetadata, SectionHitObjects}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sections = %v, want %v", got, want)
	}
}

func TestSegmentUnknownHeaderIsContent(t *testing.T) {
	t.Parallel()

	blocks := segmentText(t, "[Events]\n0,0,bg.jpg\n\n[Colours]\nCombo1 : 1,2,3\n\n[Metadata]\nTitle:x")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].section != SectionEvents || blocks[1].section != SectionMetadata {
		t.Fatalf("sections = %s, %s", blocks[0].section, blocks[1].section)
	}
	want := []string{"0,0,bg.jpg", "", "[Colours]", "Combo1 : 1,2,3"}
	if got := bodyText(blocks[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("events body = %q, want %q", got, want)
	}
}

func TestSegmentBoundaryLaw(t *testing.T) {
	t.Parallel()

	// a blank line closes a block exactly when the next line is a recognized header
	tests := []struct {
		next  string
		split bool
	}{
		{"[General]", true},
		{"[Editor]", true},
		{"[Metadata]", true},
		{"[Difficulty]", true},
		{"[Events]", true},
		{"[TimingPoints]", true},
		{"[HitObjects]", true},
		{"  [HitObjects]", true},
		{"[Colours]", false},
		{"[general]", false},
		{"[]", false},
		{"0,0,bg.jpg", false},
		{"", false},
	}
	for _, tt := range tests {
		blocks := segmentText(t, "[Events]\na\n\n"+tt.next+"\nb")
		if got := len(blocks) == 2; got != tt.split {
			t.Errorf("blank line before %q split = %v, want %v", tt.next, got, tt.split)
		}
	}
}

func TestSegmentTrailingBlankLine(t *testing.T) {
	t.Parallel()

	// the blank line is the last line: it must not look ahead
	blocks := segmentText(t, "[Metadata]\nTitle:x\n")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if got := bodyText(blocks[0]); !reflect.DeepEqual(got, []string{"Title:x", ""}) {
		t.Errorf("body = %q", got)
	}
}

func TestSegmentLeadingContentDropped(t *testing.T) {
	t.Parallel()

	blocks := segmentText(t, "stray\n\n[General]\nMode: 0")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].section.Recognized() {
		t.Error("headerless block was recognized")
	}
	if blocks[1].header.num != 3 {
		t.Errorf("header line = %d, want 3", blocks[1].header.num)
	}
}

func TestSegmenterPeekBoundary(t *testing.T) {
	t.Parallel()

	s := segmenter{lines: []string{"a"}}
	if _, err := s.peek(1); !errors.Is(err, ErrBoundaryFault) {
		t.Errorf("peek(1) error = %v, want ErrBoundaryFault", err)
	}
	if got, err := s.peek(0); err != nil || got != "a" {
		t.Errorf("peek(0) = %q, %v", got, err)
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		sec  Section
		ok   bool
	}{
		{"[General]", SectionGeneral, true},
		{"  [HitObjects]  ", SectionHitObjects, true},
		{"[Colours]", secNone, true},
		{"[general]", secNone, true},
		{"General", secNone, false},
		{"[", secNone, false},
		{"", secNone, false},
	}
	for _, tt := range tests {
		sec, ok := parseHeader(tt.line)
		if sec != tt.sec || ok != tt.ok {
			t.Errorf("parseHeader(%q) = %s, %v; want %s, %v", tt.line, sec, ok, tt.sec, tt.ok)
		}
	}
}
