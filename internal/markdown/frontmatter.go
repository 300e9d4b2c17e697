// Package markdown maps pages and their ordered blocks to markdown documents
// and back.
//
// A document may start with a YAML metadata header delimited by "---" lines.
// Parse splits that header from the body, Segment cuts the body into block
// contents, and Render rebuilds a document from a page and its blocks.
package markdown

import (
	"strings"

	"github.com/minglog/minglog/internal/apperr"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Frontmatter is the metadata header of a document. Absent keys stay nil.
type Frontmatter struct {
	Title       *string `yaml:"title,omitempty"`
	Tags        TagList `yaml:"tags,omitempty"`
	Created     *string `yaml:"created,omitempty"`
	Updated     *string `yaml:"updated,omitempty"`
	IsJournal   *bool   `yaml:"is_journal,omitempty"`
	JournalDate *string `yaml:"journal_date,omitempty"`
}

// TagList accepts either a YAML sequence or a comma-separated scalar.
type TagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out TagList
		for _, s := range strings.Split(value.Value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*t = out
		return nil
	case yaml.SequenceNode:
		var raw []string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		out := make(TagList, 0, len(raw))
		for _, s := range raw {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*t = out
		return nil
	}
	return &yaml.TypeError{Errors: []string{"tags: expected a list or a string"}}
}

// Parse splits content into its metadata header and body. The header must
// open on the first line and close on a later line consisting of "---";
// otherwise the whole input is body and the metadata is empty.
func Parse(content string) (Frontmatter, string, error) {
	var fm Frontmatter
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(content, delimiter+"\n") {
		return fm, content, nil
	}
	rest := content[len(delimiter)+1:]

	var header, body string
	switch {
	case strings.HasPrefix(rest, delimiter+"\n"):
		body = rest[len(delimiter)+1:]
	case rest == delimiter:
		body = ""
	default:
		end := strings.Index(rest, "\n"+delimiter+"\n")
		if end >= 0 {
			header, body = rest[:end], rest[end+len(delimiter)+2:]
		} else if strings.HasSuffix(rest, "\n"+delimiter) {
			header, body = strings.TrimSuffix(rest, "\n"+delimiter), ""
		} else {
			return fm, content, nil
		}
	}

	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return Frontmatter{}, "", apperr.Wrap(apperr.Serialization, "markdown: metadata header", err)
		}
	}
	return fm, body, nil
}
