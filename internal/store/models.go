package store

import "encoding/json"

// ─── Workspace model ─────────────────────────────────────────────────────────

// Graph is the root of a workspace.
type Graph struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// Page is a document inside a graph.
type Page struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Title       *string         `json:"title,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	Tags        []string        `json:"tags"`
	IsJournal   bool            `json:"is_journal"`
	JournalDate *string         `json:"journal_date,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	GraphID     string          `json:"graph_id"`
}

// DisplayTitle returns the title, falling back to the page name.
func (p *Page) DisplayTitle() string {
	if p.Title != nil && *p.Title != "" {
		return *p.Title
	}
	return p.Name
}

// Block is an ordered content unit of a page. ParentID links blocks of the
// same page into a tree; the link is a plain id, never an owning pointer.
type Block struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	ParentID   *string         `json:"parent_id,omitempty"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Refs       []string        `json:"refs"`
	Order      int             `json:"order"`
	Collapsed  bool            `json:"collapsed"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
	PageID     string          `json:"page_id"`
	GraphID    string          `json:"graph_id"`
}

// ─── Legacy flat model ───────────────────────────────────────────────────────

// Note is an entry of the flat note model. Tags holds tag ids.
type Note struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
	IsFavorite bool     `json:"is_favorite"`
	IsArchived bool     `json:"is_archived"`
}

// Tag is a named label. Names are unique.
type Tag struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Color     *string `json:"color,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// Setting is a key/value pair.
type Setting struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

// ─── Requests ────────────────────────────────────────────────────────────────

// CreateGraphRequest holds input for creating a graph.
type CreateGraphRequest struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// UpdateGraphRequest patches a graph. Nil fields are left unchanged.
type UpdateGraphRequest struct {
	ID       string           `json:"id"`
	Name     *string          `json:"name,omitempty"`
	Path     *string          `json:"path,omitempty"`
	Settings *json.RawMessage `json:"settings,omitempty"`
}

// CreatePageRequest holds input for creating a page.
type CreatePageRequest struct {
	Name        string          `json:"name"`
	Title       *string         `json:"title,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	IsJournal   *bool           `json:"is_journal,omitempty"`
	JournalDate *string         `json:"journal_date,omitempty"`
	GraphID     string          `json:"graph_id"`
}

// UpdatePageRequest patches a page. Nil fields are left unchanged.
type UpdatePageRequest struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name,omitempty"`
	Title       *string          `json:"title,omitempty"`
	Properties  *json.RawMessage `json:"properties,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	IsJournal   *bool            `json:"is_journal,omitempty"`
	JournalDate *string          `json:"journal_date,omitempty"`
}

// CreateBlockRequest holds input for creating a block. An empty GraphID is
// taken from the owning page; a nil Order appends after the last sibling.
type CreateBlockRequest struct {
	Content    string          `json:"content"`
	ParentID   *string         `json:"parent_id,omitempty"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Refs       []string        `json:"refs,omitempty"`
	Order      *int            `json:"order,omitempty"`
	PageID     string          `json:"page_id"`
	GraphID    string          `json:"graph_id,omitempty"`
}

// UpdateBlockRequest patches a block. A ParentID pointing at "" detaches the
// block to the page root.
type UpdateBlockRequest struct {
	ID         string           `json:"id"`
	Content    *string          `json:"content,omitempty"`
	ParentID   *string          `json:"parent_id,omitempty"`
	Properties *json.RawMessage `json:"properties,omitempty"`
	Refs       *[]string        `json:"refs,omitempty"`
	Order      *int             `json:"order,omitempty"`
	Collapsed  *bool            `json:"collapsed,omitempty"`
}

// CreateNoteRequest holds input for creating a note.
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateNoteRequest patches a note.
type UpdateNoteRequest struct {
	ID         string    `json:"id"`
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	IsArchived *bool     `json:"is_archived,omitempty"`
}

// CreateTagRequest holds input for creating a tag.
type CreateTagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// UpdateTagRequest patches a tag.
type UpdateTagRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ─── Listings ────────────────────────────────────────────────────────────────

// Listing is one page of a paginated result.
type Listing[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// Stats holds aggregate store statistics.
type Stats struct {
	Graphs        int   `json:"graphs"`
	Pages         int   `json:"pages"`
	Blocks        int   `json:"blocks"`
	Notes         int   `json:"notes"`
	FavoriteNotes int   `json:"favorite_notes"`
	ArchivedNotes int   `json:"archived_notes"`
	Tags          int   `json:"tags"`
	DatabaseSize  int64 `json:"database_size"`
}
