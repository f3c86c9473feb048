// Package activity keeps a short per-user history of the requests made
// against the service.
package activity

import (
	"encoding/json"
	"fmt"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
)

// listStore is a set of capped lists keyed by user, newest entry first.
type listStore interface {
	push(key string, value []byte, limit int) error
	recent(key string, limit int) ([]string, error)
	close() error
}

type Log struct {
	store listStore
	limit int
}

func newLog(store listStore, limit int) *Log {
	if limit < 1 {
		limit = 1
	}
	return &Log{store: store, limit: limit}
}

func (l *Log) Record(username string, req models.UserRequest) error {
	obj, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if err = l.store.push(username, obj, l.limit); err != nil {
		return fmt.Errorf("record activity of %q: %w", username, err)
	}
	return nil
}

// Recent returns the latest requests of username, newest first.
func (l *Log) Recent(username string) ([]models.UserRequest, error) {
	log := logger.Get()
	raw, err := l.store.recent(username, l.limit)
	if err != nil {
		return nil, fmt.Errorf("read activity of %q: %w", username, err)
	}
	ops := make([]models.UserRequest, 0, len(raw))
	for _, item := range raw {
		var req models.UserRequest
		if err := json.Unmarshal([]byte(item), &req); err != nil {
			log.Warn().Err(err).Str("username", username).Msg("skip malformed activity entry")
			continue
		}
		ops = append(ops, req)
	}
	return ops, nil
}

func (l *Log) Close() error {
	return l.store.close()
}
