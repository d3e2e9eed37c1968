package dotosu

import "strings"

type line struct {
	num  int // 1-based line number in the source
	text string
}

// block is one section: its header line followed by its body.
type block struct {
	section Section
	header  line
	body    []line
}

type segmenter struct {
	lines []string
	first int // line number of lines[0]
}

func (s *segmenter) peek(i int) (string, error) {
	if i < 0 || i >= len(s.lines) {
		return "", &BoundaryFaultError{Index: i, Len: len(s.lines)}
	}
	return s.lines[i], nil
}

// isBoundary reports whether the blank line at i closes the current block,
// which is the case only when the next line is one of the seven recognized
// section headers. A blank line before any other "[Name]" line is content.
func (s *segmenter) isBoundary(i int) (bool, error) {
	if i == len(s.lines)-1 {
		return false, nil
	}
	next, err := s.peek(i + 1)
	if err != nil {
		return false, err
	}
	sec, _ := parseHeader(next)
	return sec.Recognized(), nil
}

// segment splits body lines into blocks. Blank lines that are not followed
// by a recognized header stay inside the current block, so free-form
// sections keep their spacing and unknown sections such as [Colours] are
// read as part of the section before them. Lines before the first header
// form a headerless block.
func (s *segmenter) segment() ([]block, error) {
	var (
		blocks []block
		cur    *block
	)
	flush := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}
	for i, text := range s.lines {
		ln := line{num: s.first + i, text: text}
		if strings.TrimSpace(text) == "" {
			boundary, err := s.isBoundary(i)
			if err != nil {
				return nil, err
			}
			if boundary {
				flush()
				continue
			}
		}
		if cur == nil {
			if sec, ok := parseHeader(text); ok {
				cur = &block{section: sec, header: ln}
				continue
			}
			cur = &block{section: secNone}
		}
		cur.body = append(cur.body, ln)
	}
	flush()
	return blocks, nil
}
