package t2048

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRecordCodec(t *testing.T) {
	rec := SaveRecord{
		Score: 2048,
		Grid: [][]int{
			{2, 4, 8, 16},
			{0, 0, 0, 0},
			{1024, 0, 2, 0},
			{0, 0, 0, 4096},
		},
	}

	var buf bytes.Buffer
	if err := EncodeRecord(&buf, rec); err != nil {
		t.Fatalf("EncodeRecord: %v", err)
	}
	if !strings.Contains(buf.String(), "score: 2048") {
		t.Errorf("encoded record missing score:\n%s", buf.String())
	}

	got, err := DecodeRecord(&buf)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if got.Score != rec.Score {
		t.Errorf("score = %d, want %d", got.Score, rec.Score)
	}
	for i := range rec.Grid {
		for j := range rec.Grid[i] {
			if got.Grid[i][j] != rec.Grid[i][j] {
				t.Fatalf("grid[%d][%d] = %d, want %d", i, j, got.Grid[i][j], rec.Grid[i][j])
			}
		}
	}
	if err := got.Validate(); err != nil {
		t.Errorf("decoded record invalid: %v", err)
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	inputs := map[string]string{
		"empty":         "",
		"not yaml":      "score: [",
		"wrong type":    "score: lots\ngrid: []\n",
		"unknown field": "score: 1\ngrid: []\nlevel: 3\n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecord(strings.NewReader(in))
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("DecodeRecord(%q) = %v, want ErrMalformedRecord", in, err)
			}
		})
	}
}

func TestValidateShape(t *testing.T) {
	ok := SaveRecord{Grid: Grid{}.Rows()}
	if err := ok.Validate(); err != nil {
		t.Errorf("empty 4x4 grid should be valid: %v", err)
	}

	bad := SaveRecord{Grid: [][]int{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}}
	if err := bad.Validate(); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("3x4 grid: %v, want ErrMalformedRecord", err)
	}
}
