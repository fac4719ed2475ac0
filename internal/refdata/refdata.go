// Package refdata loads the read-only reference document that feeds the
// characters chart.
//
// A missing or unparsable file is reported as types.ErrMissingResource or
// types.ErrMalformedResource. A document without a usable "characters"
// collection is reported as types.ErrUnrecognizedStructure. Callers skip the
// dependent view on any of these rather than halting.
package refdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// CharactersPath selects the character collection inside the document.
const CharactersPath = "$.characters"

// Loader reads the reference document from Path.
type Loader struct {
	Path string
}

// NewLoader returns a Loader for the reference file at path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Document is a parsed reference document.
type Document struct {
	root any
}

// Load reads and parses the reference file.
func (l *Loader) Load() (*Document, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingResource, filepath.Base(l.Path))
		}
		return nil, fmt.Errorf("reading %s: %w", l.Path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(l.Path), err)
	}
	return doc, nil
}

// Parse decodes a reference document from data.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedResource, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", types.ErrMalformedResource)
	}
	return &Document{root: root}, nil
}

// Characters extracts the character collection in document order.
func (d *Document) Characters() ([]types.Character, error) {
	val, err := jsonpath.Get(CharactersPath, d.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnrecognizedStructure, err)
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: characters is %T, want array", types.ErrUnrecognizedStructure, val)
	}

	chars := make([]types.Character, 0, len(list))
	for i, item := range list {
		c, err := decodeCharacter(item)
		if err != nil {
			return nil, fmt.Errorf("%w: characters[%d]: %v", types.ErrUnrecognizedStructure, i, err)
		}
		chars = append(chars, c)
	}
	return chars, nil
}

func decodeCharacter(item any) (types.Character, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return types.Character{}, fmt.Errorf("is %T, want object", item)
	}
	name, ok := obj["name"].(string)
	if !ok {
		return types.Character{}, errors.New("name missing or not a string")
	}
	num, ok := obj["votes"].(json.Number)
	if !ok {
		return types.Character{}, errors.New("votes missing or not a number")
	}
	votes, err := wholeNumber(num)
	if err != nil {
		return types.Character{}, fmt.Errorf("votes %s: %v", num, err)
	}
	return types.Character{Name: name, Votes: votes}, nil
}

// wholeNumber accepts non-negative integers, including ones written as 12.0.
func wholeNumber(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0, errors.New("negative")
		}
		if i > math.MaxInt32 {
			return 0, errors.New("out of range")
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.New("not a whole number")
	}
	if f < 0 {
		return 0, errors.New("negative")
	}
	if f > math.MaxInt32 {
		return 0, errors.New("out of range")
	}
	return int(f), nil
}

// LoadCharacters loads the file and extracts its characters in one step.
func (l *Loader) LoadCharacters() ([]types.Character, error) {
	doc, err := l.Load()
	if err != nil {
		return nil, err
	}
	return doc.Characters()
}
