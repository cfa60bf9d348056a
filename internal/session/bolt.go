package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketSession = []byte("session")

// BoltStore keeps the credential in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStore, path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return &BoltStore{db: db}, nil
}

// Save overwrites any stored credential.
func (s *BoltStore) Save(_ context.Context, username, password string) error {
	if err := validate(username); err != nil {
		return err
	}
	token := Encode(username, password)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Put([]byte(keyCredentials), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(keyUsername), []byte(username))
	})
	if err != nil {
		return fmt.Errorf("%w: save: %w", ErrStore, err)
	}
	return nil
}

// Credentials returns the stored credential or ErrNoCredentials.
func (s *BoltStore) Credentials(_ context.Context) (Credential, error) {
	var c Credential
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		token := b.Get([]byte(keyCredentials))
		if len(token) == 0 {
			return ErrNoCredentials
		}
		c.Token = string(token)
		c.Username = string(b.Get([]byte(keyUsername)))
		return nil
	})
	if err != nil {
		return Credential{}, err
	}
	return c, nil
}

// Username returns the stored username or ErrNoCredentials.
func (s *BoltStore) Username(ctx context.Context) (string, error) {
	c, err := s.Credentials(ctx)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}

// Clear erases the token and username.
func (s *BoltStore) Clear(_ context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Delete([]byte(keyCredentials)); err != nil {
			return err
		}
		return b.Delete([]byte(keyUsername))
	})
	if err != nil {
		return fmt.Errorf("%w: clear: %w", ErrStore, err)
	}
	return nil
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
