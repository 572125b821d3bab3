package t2048

import "errors"

var (
	// ErrGameFinished is returned when saving a game that is already over.
	ErrGameFinished = errors.New("cannot save a finished game")
	// ErrNoEmptyCells is returned when a spawn is requested on a full grid.
	ErrNoEmptyCells = errors.New("no empty cells")
	// ErrMalformedRecord is returned when a save record cannot be decoded or fails validation.
	ErrMalformedRecord = errors.New("malformed save record")
	// ErrNoSavedGame is returned by record stores when nothing has been saved yet.
	ErrNoSavedGame = errors.New("no saved game")
)

// EngineError reports a broken engine invariant. It is a defect, never retried.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return "t2048: " + e.Op + ": " + e.Err.Error()
}

func (e *EngineError) Unwrap() error { return e.Err }

// SaveError reports a failed save: a finished game or a storage write failure.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return "t2048: save: " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }

// LoadError reports a failed load: a missing or malformed record, or a storage read failure.
// State is never modified when a LoadError is returned.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "t2048: load: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }
