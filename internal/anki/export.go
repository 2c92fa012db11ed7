package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ExportOptions configures the CSV export of notes
type ExportOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	IncludeIDs     bool   // Prepend the note id column
}

// DefaultExportOptions returns sensible defaults
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		OutputPath:     "anki_export.csv",
		IncludeHeaders: true,
		IncludeIDs:     true,
	}
}

// Exporter writes notes fetched from Anki into a CSV file
type Exporter struct {
	options *ExportOptions
	notes   []Note
}

// NewExporter creates a new exporter
func NewExporter(options *ExportOptions) *Exporter {
	if options == nil {
		options = DefaultExportOptions()
	}
	return &Exporter{
		options: options,
		notes:   make([]Note, 0),
	}
}

// AddNote adds a note to the export
func (e *Exporter) AddNote(note Note) {
	e.notes = append(e.notes, note)
}

// Notes returns the notes queued for export
func (e *Exporter) Notes() []Note {
	return e.notes
}

// GenerateCSV creates the CSV file at the configured output path
func (e *Exporter) GenerateCSV() error {
	file, err := os.Create(e.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := e.WriteCSV(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV writes the notes as CSV. Columns are the union of all field
// names in model order of first appearance, followed by the tags.
func (e *Exporter) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	columns := e.columns()

	if e.options.IncludeHeaders {
		headers := make([]string, 0, len(columns)+2)
		if e.options.IncludeIDs {
			headers = append(headers, "note_id")
		}
		headers = append(headers, columns...)
		headers = append(headers, "tags")
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, note := range e.notes {
		record := make([]string, 0, len(columns)+2)
		if e.options.IncludeIDs {
			record = append(record, strconv.FormatInt(note.NoteID, 10))
		}
		for _, name := range columns {
			value, _ := note.Field(name)
			record = append(record, value)
		}
		record = append(record, strings.Join(note.Tags, " "))

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write note %d: %w", note.NoteID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (e *Exporter) columns() []string {
	seen := make(map[string]bool)
	var columns []string
	for _, note := range e.notes {
		for _, name := range note.FieldNames() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	return columns
}

// Stats returns statistics about the exported notes
func (e *Exporter) Stats() (totalNotes, withAudio int) {
	totalNotes = len(e.notes)

	for _, note := range e.notes {
		for _, f := range note.Fields {
			if strings.Contains(f.Value, "[sound:") {
				withAudio++
				break
			}
		}
	}

	return
}
