package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New().Parser()

// segmenter accumulates inline text and cuts it into blocks.
type segmenter struct {
	src []byte
	buf strings.Builder
	out []string
}

func (s *segmenter) flush() {
	if v := strings.TrimSpace(s.buf.String()); v != "" {
		s.out = append(s.out, v)
	}
	s.buf.Reset()
}

// Segment splits a markdown body into block contents in document order.
//
// Headings and paragraphs each become a block with their inline text. A
// fenced or indented code region becomes exactly one block including its
// fence markers. Inline code keeps its back-ticks; line breaks outside code
// collapse to a single space. Blank blocks are dropped.
func Segment(body string) []string {
	src := []byte(body)
	seg := &segmenter{src: src, out: []string{}}

	doc := parser.Parse(text.NewReader(src))
	_ = ast.Walk(doc, seg.visit)
	seg.flush()
	return seg.out
}

func (s *segmenter) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
		s.flush()

	case *ast.FencedCodeBlock:
		if entering {
			var info string
			if node.Info != nil {
				info = string(node.Info.Segment.Value(s.src))
			}
			s.code(info, node.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			s.code("", node.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil

	case *ast.CodeSpan:
		s.buf.WriteByte('`')

	case *ast.AutoLink:
		if entering {
			s.buf.Write(node.Label(s.src))
		}

	case *ast.Text:
		if entering {
			s.buf.Write(node.Segment.Value(s.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s.buf.WriteByte(' ')
			}
		}

	case *ast.String:
		if entering {
			s.buf.Write(node.Value)
		}
	}
	return ast.WalkContinue, nil
}

// code emits a whole code region as one block. The back-tick fence is
// longer than any back-tick run in the body so the block reparses intact.
func (s *segmenter) code(info string, lines *text.Segments) {
	s.flush()
	var body strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		body.Write(line.Value(s.src))
	}
	fence := strings.Repeat("`", max(3, longestRun(body.String(), '`')+1))
	s.buf.WriteString(fence)
	s.buf.WriteString(strings.TrimSpace(info))
	s.buf.WriteByte('\n')
	s.buf.WriteString(body.String())
	s.buf.WriteString(fence)
	s.flush()
}

// longestRun returns the length of the longest run of c in str.
func longestRun(str string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(str); i++ {
		if str[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
