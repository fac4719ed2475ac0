// Package csvstore implements the flat-file Record Store backend and the CSV
// codec shared by every backend that keeps the entries file as its source of
// truth.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// ReadEntries reads the entries file at path. The boolean is false when the
// file does not exist or is zero-length. A header-only file returns an empty
// slice and true. Parse failures wrap types.ErrMalformedResource.
func ReadEntries(path string) ([]types.Entry, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseEntries(filepath.Base(path), data)
}

// ParseEntries decodes the contents of an entries file named name, with the
// same results as ReadEntries. Empty data means no file content.
func ParseEntries(name string, data []byte) ([]types.Entry, bool, error) {
	if len(data) == 0 {
		return nil, false, nil
	}

	entries, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", types.ErrMalformedResource, name, err)
	}
	return entries, true, nil
}

// decode parses a header row followed by data rows.
func decode(r io.Reader) ([]types.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(types.Header)

	header, err := cr.Read()
	if err == io.EOF {
		return []types.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i, col := range types.Header {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, header[i], col)
		}
	}

	entries := []types.Entry{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRecord(rec []string) (types.Entry, error) {
	episodes, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil {
		return types.Entry{}, fmt.Errorf("episodes %q: not an integer", rec[2])
	}
	rating, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return types.Entry{}, fmt.Errorf("rating %q: not an integer", rec[3])
	}
	return types.Entry{
		Title:    rec[0],
		Genre:    rec[1],
		Episodes: episodes,
		Rating:   rating,
		Status:   rec[4],
	}, nil
}

// AppendEntry appends e to the entries file at path, creating it when absent.
// The header row is written first when the file is absent or zero-length, in
// the same write as the data row.
func AppendEntry(path string, e types.Entry) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var buf bytes.Buffer
	if info.Size() == 0 {
		if err := encodeRows(&buf, types.Header); err != nil {
			return err
		}
	} else if !endsWithNewline(f, info.Size()) {
		buf.WriteByte('\n')
	}
	if err := encodeRows(&buf, e.Record()); err != nil {
		return err
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	return nil
}

// endsWithNewline reports whether the last byte of f is a newline.
func endsWithNewline(f *os.File, size int64) bool {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return true
	}
	return last[0] == '\n'
}

// WriteEntries atomically replaces the entries file at path with the header
// row followed by entries, using the temp-file, fsync, rename pattern.
func WriteEntries(path string, entries []types.Entry) error {
	var buf bytes.Buffer
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, types.Header)
	for _, e := range entries {
		rows = append(rows, e.Record())
	}
	if err := encodeRows(&buf, rows...); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".csv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing entries: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func encodeRows(w io.Writer, rows ...[]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}
	return nil
}
