package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/hack-pad/hackpadfs"
)

var (
	// ErrModelNotFound is returned by Load when no blob exists at the path.
	ErrModelNotFound = errors.New("model: blob not found")
	// ErrMalformedModel is returned when a blob cannot be decoded.
	ErrMalformedModel = errors.New("model: malformed blob")
)

// Encode writes the model as a gob blob.
func (m *Model) Encode(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// Decode reads a gob blob written by Encode.
func Decode(r io.Reader) (*Model, error) {
	var m Model
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	if m.Classifiers == nil {
		m.Classifiers = make(map[string]*Classifier)
	}
	return &m, nil
}

// Save persists the model at name in fs, creating parent directories.
func Save(fs hackpadfs.FS, name string, m *Model) error {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return err
	}
	if dir := path.Dir(name); dir != "." {
		if err := hackpadfs.MkdirAll(fs, dir, 0o755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	if err := hackpadfs.WriteFullFile(fs, name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Load reads the model stored at name in fs.
func Load(fs hackpadfs.FS, name string) (*Model, error) {
	content, err := hackpadfs.ReadFile(fs, name)
	if err != nil {
		if errors.Is(err, hackpadfs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Decode(bytes.NewReader(content))
}
