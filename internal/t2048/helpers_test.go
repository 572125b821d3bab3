package t2048

import (
	"context"
	"errors"
)

// memStore is an in-memory RecordStore.
type memStore struct {
	rec    *SaveRecord
	putErr error
	puts   int
}

func (m *memStore) Put(_ context.Context, rec SaveRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.rec = &rec
	return nil
}

func (m *memStore) Get(context.Context) (SaveRecord, error) {
	if m.rec == nil {
		return SaveRecord{}, ErrNoSavedGame
	}
	return *m.rec, nil
}

var errDiskFull = errors.New("disk full")

// overGrid is a full grid with no legal move.
var overGrid = Grid{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
}
