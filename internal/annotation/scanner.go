// Package annotation extracts swag-style comment annotations from source text
// and parses them into endpoint descriptions
package annotation

import (
	"regexp"
	"strings"
)

var funcDeclRegex = regexp.MustCompile(`^\s*func\s+(\w+)`)

// Block is a run of consecutive single-line comments that directly precedes
// a function declaration
type Block struct {
	File     string
	Function string
	Lines    []string
}

// Scanner walks the lines of one source file and yields comment blocks.
// It is lazy and cannot be restarted
type Scanner struct {
	file  string
	lines []string
	pos   int
	block Block
}

// NewScanner creates a scanner over the text of one file. The label is only
// carried through to the yielded blocks
func NewScanner(file, text string) *Scanner {
	return &Scanner{
		file:  file,
		lines: strings.Split(text, "\n"),
	}
}

// Next advances to the next comment block followed by a function declaration.
// It returns false once the text is exhausted
func (s *Scanner) Next() bool {
	for s.pos < len(s.lines) {
		if !isCommentLine(s.lines[s.pos]) {
			s.pos++
			continue
		}

		start := s.pos
		for s.pos < len(s.lines) && isCommentLine(s.lines[s.pos]) {
			s.pos++
		}
		run := s.lines[start:s.pos]

		next := s.pos
		for next < len(s.lines) && strings.TrimSpace(s.lines[next]) == "" {
			next++
		}
		if next >= len(s.lines) {
			continue
		}

		m := funcDeclRegex.FindStringSubmatch(s.lines[next])
		if m == nil {
			continue
		}

		s.block = Block{
			File:     s.file,
			Function: m[1],
			Lines:    append([]string(nil), run...),
		}
		s.pos = next + 1
		return true
	}

	s.block = Block{}
	return false
}

// Block returns the block found by the last call to Next
func (s *Scanner) Block() Block {
	return s.block
}

// Extract drains a scanner over text and returns every block in source order
func Extract(file, text string) []Block {
	var blocks []Block
	s := NewScanner(file, text)
	for s.Next() {
		blocks = append(blocks, s.Block())
	}
	return blocks
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t\r"), "//")
}
