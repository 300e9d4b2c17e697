package markdown

import (
	"bytes"
	"strings"
	"time"

	"github.com/minglog/minglog/internal/store"
	"gopkg.in/yaml.v3"
)

// headerTimeLayout is the timestamp format written into rendered headers.
const headerTimeLayout = "2006-01-02 15:04:05"

type header struct {
	Title       string   `yaml:"title,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Created     string   `yaml:"created"`
	Updated     string   `yaml:"updated"`
	IsJournal   bool     `yaml:"is_journal,omitempty"`
	JournalDate string   `yaml:"journal_date,omitempty"`
}

// Render builds a markdown document for a page and its blocks, which must
// already be in display order.
func Render(page store.Page, blocks []store.Block) string {
	h := header{
		Tags:      page.Tags,
		Created:   headerTime(page.CreatedAt),
		Updated:   headerTime(page.UpdatedAt),
		IsJournal: page.IsJournal,
	}
	if page.Title != nil {
		h.Title = *page.Title
	}
	if page.IsJournal && page.JournalDate != nil {
		h.JournalDate = *page.JournalDate
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(encodeHeader(h))
	b.WriteString(delimiter + "\n\n")

	b.WriteString("# ")
	b.WriteString(page.DisplayTitle())
	b.WriteString("\n\n")

	for _, blk := range blocks {
		b.WriteString(blk.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

func encodeHeader(h header) []byte {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	// Every field is a string, bool or string slice, so encoding cannot fail.
	_ = enc.Encode(h)
	_ = enc.Close()
	return buf.Bytes()
}

// headerTime reformats a stored timestamp for humans; unknown formats pass
// through unchanged.
func headerTime(ts string) string {
	if t, err := time.Parse(store.TimeLayout, ts); err == nil {
		return t.Format(headerTimeLayout)
	}
	return ts
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	return filenameReplacer.Replace(name)
}
