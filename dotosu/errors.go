package dotosu

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrNotText         = errors.New("not a text file")
	ErrNotBeatmap      = errors.New("not an osu beatmap")
	ErrMalformedHeader = errors.New("malformed .osu header")
	ErrMalformedField  = errors.New("malformed field")
	ErrBoundaryFault   = errors.New("section lookahead out of bounds")
)

// NotTextError is returned when the content cannot be decoded as text.
type NotTextError struct {
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *NotTextError) Error() string {
	return fmt.Sprintf("%s: invalid byte sequence at offset %d", ErrNotText, e.Offset)
}

func (e *NotTextError) Unwrap() error { return ErrNotText }

// NotBeatmapError is returned when the first line lacks the "osu file format v" signature.
type NotBeatmapError struct {
	Header string
}

func (e *NotBeatmapError) Error() string {
	return fmt.Sprintf("%s: invalid header %q", ErrNotBeatmap, truncate(e.Header, 64))
}

func (e *NotBeatmapError) Unwrap() error { return ErrNotBeatmap }

// MalformedHeaderError is returned when the signature is present but the
// version token is not a number.
type MalformedHeaderError struct {
	Header string
	Err    error
}

func (e *MalformedHeaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", ErrMalformedHeader, e.Header, e.Err)
	}
	return fmt.Sprintf("%s: %q", ErrMalformedHeader, e.Header)
}

func (e *MalformedHeaderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedHeader}
	}
	return []error{ErrMalformedHeader, e.Err}
}

// MalformedFieldError reports a body line that a section could not decode.
type MalformedFieldError struct {
	Section Section
	Line    int // 1-based line number in the source
	Text    string
	Err     error
}

func (e *MalformedFieldError) Error() string {
	msg := fmt.Sprintf("%s: line %d in %s: %q", ErrMalformedField, e.Line, e.Section, truncate(e.Text, 64))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedFieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedField}
	}
	return []error{ErrMalformedField, e.Err}
}

// BoundaryFaultError is returned when segmentation looks past the last line.
type BoundaryFaultError struct {
	Index, Len int
}

func (e *BoundaryFaultError) Error() string {
	return fmt.Sprintf("%s: index %d, %d lines", ErrBoundaryFault, e.Index, e.Len)
}

func (e *BoundaryFaultError) Unwrap() error { return ErrBoundaryFault }

// IsSkippable reports whether err means the input simply isn't a beatmap,
// as opposed to a beatmap that is corrupt.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrNotText) || errors.Is(err, ErrNotBeatmap)
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
