package transfer

import (
	"fmt"

	"github.com/minglog/minglog/internal/store"
)

// ExportNotes writes every note, tag and setting to path as JSON.
func (s *Service) ExportNotes(path string) (*store.NotesDump, error) {
	dump, err := s.store.DumpNotes()
	if err != nil {
		return nil, fmt.Errorf("export notes: %w", err)
	}
	if err := writeJSON(path, dump); err != nil {
		return nil, err
	}
	s.log.Info("notes exported", "path", path, "notes", len(dump.Notes), "tags", len(dump.Tags))
	return dump, nil
}

// ImportNotes loads a note dump written by ExportNotes. The whole file is
// applied in one transaction.
func (s *Service) ImportNotes(path string) (*store.NotesImportResult, error) {
	var dump store.NotesDump
	if err := readJSON(path, &dump); err != nil {
		return nil, err
	}
	res, err := s.store.LoadNotes(&dump)
	if err != nil {
		return nil, fmt.Errorf("import notes: %w", err)
	}
	s.log.Info("notes imported", "path", path, "notes", res.NotesImported, "tags", res.TagsImported)
	return res, nil
}
