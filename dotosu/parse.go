package dotosu

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const headerPrefix = "osu file format v"

// BoolMode selects how [General] flag keys become booleans.
type BoolMode uint8

const (
	// BoolTruthy keeps numeric flag values as Int or Float and turns any
	// other value into a Bool that is true unless the value is empty.
	BoolTruthy BoolMode = iota
	// BoolNumeric turns every flag into a Bool. Empty values and values
	// that parse as zero are false.
	BoolNumeric
)

// HitObjectHook post-processes the raw [HitObjects] lines.
type HitObjectHook func(lines []string) []string

// PassThroughHitObjects is the default hook: lines are returned unchanged.
func PassThroughHitObjects(lines []string) []string { return lines }

// Parser decodes .osu content. It holds only options, so one Parser may be
// shared by any number of goroutines.
type Parser struct {
	boolMode BoolMode
	hook     HitObjectHook
}

type Option func(*Parser)

func WithBoolMode(m BoolMode) Option {
	return func(p *Parser) { p.boolMode = m }
}

// WithHitObjectHook runs hook over the hit object lines after decoding.
// A nil hook installs PassThroughHitObjects.
func WithHitObjectHook(hook HitObjectHook) Option {
	return func(p *Parser) {
		if hook == nil {
			hook = PassThroughHitObjects
		}
		p.hook = hook
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse decodes data with the default options.
func Parse(data []byte) (*Document, error) { return defaultParser.Parse(data) }

func DecodeFile(path string) (*Document, error) { return defaultParser.ParseFile(path) }

func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.ParseReader(f)
}

func (p *Parser) ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.Parse(data)
}

func (p *Parser) Parse(data []byte) (*Document, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)

	var first string
	if len(lines) > 0 {
		first = lines[0]
	}
	version, err := parseVersion(first)
	if err != nil {
		return nil, err
	}

	seg := segmenter{lines: lines[1:], first: 2}
	blocks, err := seg.segment()
	if err != nil {
		return nil, err
	}

	d := NewDocument()
	d.Version = version
	for _, b := range blocks {
		if !b.section.Recognized() {
			continue
		}
		if err := handlers[b.section](p, d, b.body); err != nil {
			return nil, err
		}
	}
	if p.hook != nil {
		d.HitObjects = p.hook(d.HitObjects)
	}
	return d, nil
}

func parseVersion(header string) (int, error) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, headerPrefix) {
		return 0, &NotBeatmapError{Header: header}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, headerPrefix))
	if !isDigits(token) {
		return 0, &MalformedHeaderError{Header: header, Err: fmt.Errorf("version %q is not an unsigned number", token)}
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, &MalformedHeaderError{Header: header, Err: err}
	}
	return v, nil
}

func (p *Parser) coerceBool(raw string) bool {
	if p.boolMode == BoolNumeric {
		s := strings.TrimSpace(raw)
		if s == "" {
			return false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return true
	}
	return raw != ""
}
