package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// localSlot is the save slot name of the terminal player.
const localSlot = "local"

// slots hands out save slots from the configured back end.
type slots struct {
	backend string
	saveDir string
	local   t2048.RecordStore
	db      *storage.Store
	redis   *storage.RedisStore
}

// openSlots prepares the configured back end. db is the scores database and
// may be nil unless the back end is sqlite.
func openSlots(ctx context.Context, c config.Config, db *storage.Store) (*slots, error) {
	s := &slots{backend: c.Storage.Backend, db: db}

	switch c.Storage.Backend {
	case config.BackendFile:
		fs, err := storage.NewFileStore(c.SaveFile)
		if err != nil {
			return nil, err
		}
		s.local = fs
		s.saveDir = filepath.Join(filepath.Dir(fs.Path()), "sessions")

	case config.BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite back end needs the database at %s", c.DBPath)
		}
		s.local = db.Slot(localSlot)

	case config.BackendRedis:
		rs, err := storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:      c.Redis.Addr,
			Password:  c.Redis.Password,
			DB:        c.Redis.DB,
			KeyPrefix: c.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		s.redis = rs
		s.local = rs.Slot(localSlot)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return s, nil
}

// Local is the slot of the terminal player.
func (s *slots) Local() t2048.RecordStore {
	return s.local
}

// Session returns the slot of a web or MCP session.
func (s *slots) Session(id string) t2048.RecordStore {
	name := "session:" + id
	switch s.backend {
	case config.BackendSQLite:
		return s.db.Slot(name)
	case config.BackendRedis:
		return s.redis.Slot(name)
	}
	fs, err := storage.NewFileStore(filepath.Join(s.saveDir, id+".yaml"))
	if err != nil {
		return nil
	}
	return fs
}

// SlotFunc adapts Session for the session manager.
func (s *slots) SlotFunc() session.SlotFunc {
	return s.Session
}

// Close releases the Redis client, if any. The database is owned by the caller.
func (s *slots) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

