package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/microblog/internal/client/storage"
)

var sessionKey = []byte("current")

// SaveSession stores the session, replacing the previous one
func (s *Storage) SaveSession(_ context.Context, sess *storage.Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if err := bucket.Put(sessionKey, data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// GetSession retrieves the stored session
func (s *Storage) GetSession(_ context.Context) (*storage.Session, error) {
	var sess *storage.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get(sessionKey)
		if data == nil {
			return storage.ErrNoSession
		}

		sess = &storage.Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// DeleteSession removes the session and every saved feed cursor
func (s *Storage) DeleteSession(_ context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		if bucket.Get(sessionKey) == nil {
			return storage.ErrNoSession
		}
		if err := bucket.Delete(sessionKey); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		// Курсоры без сессии бесполезны
		if err := tx.DeleteBucket(bucketCursors); err != nil {
			return fmt.Errorf("failed to drop cursors: %w", err)
		}
		_, err := tx.CreateBucket(bucketCursors)
		return err
	})
}

// SaveFeedCursor remembers the next cursor of username's home feed. An
// empty cursor clears it.
func (s *Storage) SaveFeedCursor(_ context.Context, username, cursor string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCursors)
		if bucket == nil {
			return fmt.Errorf("cursors bucket not found")
		}

		if cursor == "" {
			return bucket.Delete([]byte(username))
		}
		if err := bucket.Put([]byte(username), []byte(cursor)); err != nil {
			return fmt.Errorf("failed to save feed cursor: %w", err)
		}
		return nil
	})
}

// GetFeedCursor returns the saved cursor or ""
func (s *Storage) GetFeedCursor(_ context.Context, username string) (string, error) {
	var cursor string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCursors)
		if bucket == nil {
			return fmt.Errorf("cursors bucket not found")
		}
		// Get returns memory owned by the transaction
		cursor = string(bucket.Get([]byte(username)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get feed cursor: %w", err)
	}

	return cursor, nil
}
