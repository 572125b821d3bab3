package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// Actions accepted by Apply.
const (
	ActionMove    = "move"
	ActionRestart = "restart"
	ActionSave    = "save"
	ActionLoad    = "load"
	ActionState   = "state"
)

var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Command is a single request against a session, as sent by network clients.
type Command struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

// Result reports what a command did.
type Result struct {
	Action     string         `json:"action"`
	Moved      bool           `json:"moved"`
	ScoreDelta int            `json:"score_delta"`
	Snapshot   t2048.Snapshot `json:"state"`
}

// Mutates reports whether the command can change the game.
func (c Command) Mutates() bool {
	switch strings.ToLower(c.Action) {
	case ActionMove, ActionRestart, ActionLoad:
		return true
	}
	return false
}

// Apply executes cmd against the session.
func (s *Session) Apply(ctx context.Context, cmd Command) (Result, error) {
	action := strings.ToLower(strings.TrimSpace(cmd.Action))
	res := Result{Action: action}

	var err error
	switch action {
	case ActionMove:
		dir, ok := t2048.ParseDirection(strings.ToLower(cmd.Direction))
		if !ok {
			return res, fmt.Errorf("%w: %q", ErrInvalidDirection, cmd.Direction)
		}
		err = s.Do(func(st *t2048.State) error {
			out, accepted := st.OnDirection(dir)
			res.Moved = accepted && out.Changed
			res.ScoreDelta = out.ScoreDelta
			return nil
		})
	case ActionRestart:
		err = s.Do(func(st *t2048.State) error {
			st.Restart()
			return nil
		})
	case ActionSave:
		err = s.Save(ctx)
	case ActionLoad:
		err = s.Load(ctx)
	case ActionState:
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	res.Snapshot = s.Snapshot()
	return res, err
}
