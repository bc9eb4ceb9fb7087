// Package store persists per-session progress and analysis results in a
// Badger database, so clients can poll across server restarts.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
	apperrors "github.com/reelwrapped/reelwrapped-server/internal/errors"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func progressKey(sessionID string) []byte {
	return []byte("session:" + sessionID + ":progress")
}

func resultKey(sessionID string) []byte {
	return []byte("session:" + sessionID + ":result")
}

// PutProgress persists the current progress record for a session.
func (s *Store) PutProgress(record domain.ProgressRecord) error {
	return s.put(progressKey(record.SessionID), record)
}

// GetProgress loads the progress record for a session.
func (s *Store) GetProgress(sessionID string) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	if err := s.get(progressKey(sessionID), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// PutResult persists the completed analysis for a session.
func (s *Store) PutResult(result domain.AnalysisResult) error {
	return s.put(resultKey(result.SessionID), result)
}

// GetResult loads the completed analysis for a session.
func (s *Store) GetResult(sessionID string) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := s.get(resultKey(sessionID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Store) put(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (s *Store) get(key []byte, out any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.NotFound("session not found")
	}
	return err
}
