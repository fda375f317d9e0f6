package manifest

import (
	"encoding/csv"
	"os"
)

// Writer is a per-format (or report) manifest sink: header emitted once at
// creation, one row per call to Next thereafter. It is a thin wrapper over
// stdlib encoding/csv; none of the retrieval pack's examples carry a
// richer CSV dependency to reach for instead.
type Writer struct {
	Path    string
	Columns []Column

	f         *os.File
	w         *csv.Writer
	wroteHead bool
}

// Begin opens path for appending (creating the file if absent; its parent
// directory is not created and must already exist) and prepares the header
// to be written before the first row if the file did not already exist.
func Begin(path string, columns []Column) (*Writer, error) {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true

	return &Writer{
		Path:      path,
		Columns:   columns,
		f:         f,
		w:         w,
		wroteHead: existed,
	}, nil
}

// Next appends one row, using "" for any column missing from row.
func (m *Writer) Next(row map[Column]string) error {
	if !m.wroteHead {
		header := make([]string, len(m.Columns))
		for i, c := range m.Columns {
			header[i] = c.Header()
		}
		if err := m.w.Write(header); err != nil {
			return err
		}
		m.wroteHead = true
	}

	record := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		record[i] = row[c]
	}
	if err := m.w.Write(record); err != nil {
		return err
	}
	m.w.Flush()
	return m.w.Error()
}

// End flushes and closes the underlying file.
func (m *Writer) End() error {
	m.w.Flush()
	if err := m.w.Error(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}
