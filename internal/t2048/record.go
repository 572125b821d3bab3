package t2048

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SaveRecord is the persisted form of a game: score plus grid rows.
type SaveRecord struct {
	Score int     `yaml:"score" json:"score"`
	Grid  [][]int `yaml:"grid" json:"grid"`
}

// RecordStore persists a single save record.
// Get returns an error wrapping ErrNoSavedGame when nothing was stored.
type RecordStore interface {
	Put(ctx context.Context, rec SaveRecord) error
	Get(ctx context.Context) (SaveRecord, error)
}

// Validate checks the record shape and contents.
// Errors wrap ErrMalformedRecord.
func (r SaveRecord) Validate() error {
	if _, err := GridFromRows(r.Grid); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if r.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrMalformedRecord, r.Score)
	}
	for i, row := range r.Grid {
		for j, v := range row {
			if !isTileValue(v) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", ErrMalformedRecord, i, j, v)
			}
		}
	}
	return nil
}

// EncodeRecord writes rec to w as YAML.
func EncodeRecord(w io.Writer, rec SaveRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// DecodeRecord reads one YAML record from r.
// Decode failures wrap ErrMalformedRecord; shape is checked by Validate.
func DecodeRecord(r io.Reader) (SaveRecord, error) {
	var rec SaveRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return SaveRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return rec, nil
}
