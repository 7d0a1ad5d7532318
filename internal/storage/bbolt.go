package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// DefaultCredential is returned by GetCredential until the user sets one.
const DefaultCredential = "Venus!420"

// Bucket names
var (
	ConfigBucket = []byte("config") // version, timestamps, vault id
	VaultBucket  = []byte("vault")  // credential and the two record collections
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigVaultID  = []byte("vault_id")
)

// Vault keys
var (
	KeyCredential = []byte("vp_pass")
	KeyMedia      = []byte("vp_media")
	KeyText       = []byte("vp_text")
)

const openTimeout = time.Second

// Storage provides BBolt-based storage for vaultpad
type Storage struct {
	db  *bolt.DB
	log *zap.Logger
}

// Option configures a Storage
type Option func(*Storage)

// WithLogger sets the logger used to report corrupt collections
func WithLogger(log *zap.Logger) Option {
	return func(s *Storage) {
		if log != nil {
			s.log = log
		}
	}
}

// Open opens or creates a vault database and makes sure its buckets exist.
func Open(path string, opts ...Option) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

func (s *Storage) initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, VaultBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// touch records the modification time inside an open write transaction
func touch(tx *bolt.Tx) error {
	modified, _ := time.Now().MarshalBinary()
	return tx.Bucket(ConfigBucket).Put(ConfigModified, modified)
}

// GetCredential returns the persisted credential or DefaultCredential if unset
func (s *Storage) GetCredential() (string, error) {
	credential := DefaultCredential
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(VaultBucket).Get(KeyCredential)
		if len(data) > 0 {
			credential = string(data)
		}
		return nil
	})
	return credential, err
}

// SetCredential overwrites the persisted credential. Callers validate it first.
func (s *Storage) SetCredential(v string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(VaultBucket).Put(KeyCredential, []byte(v)); err != nil {
			return err
		}
		return touch(tx)
	})
}

// ReadMedia returns the media collection in storage order.
// A missing or unparsable value yields an empty collection.
func (s *Storage) ReadMedia() ([]MediaRecord, error) {
	return readCollection[MediaRecord](s, KeyMedia)
}

// WriteMedia replaces the whole media collection
func (s *Storage) WriteMedia(list []MediaRecord) error {
	if list == nil {
		list = []MediaRecord{}
	}
	return s.writeCollection(KeyMedia, list)
}

// ReadText returns the text collection in storage order.
// A missing or unparsable value yields an empty collection.
func (s *Storage) ReadText() ([]TextRecord, error) {
	return readCollection[TextRecord](s, KeyText)
}

// WriteText replaces the whole text collection
func (s *Storage) WriteText(list []TextRecord) error {
	if list == nil {
		list = []TextRecord{}
	}
	return s.writeCollection(KeyText, list)
}

// readCollection decodes the array stored under key. A value that does not
// decode completely is discarded as a whole, never partially returned.
func readCollection[T any](s *Storage, key []byte) ([]T, error) {
	list := []T{}
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(VaultBucket).Get(key)
		if data == nil {
			return nil
		}
		var decoded []T
		if err := json.Unmarshal(data, &decoded); err != nil {
			s.log.Warn("discarding unreadable collection",
				zap.ByteString("key", key), zap.Error(err))
			return nil
		}
		if decoded != nil {
			list = decoded
		}
		return nil
	})
	if err != nil {
		return []T{}, err
	}
	return list, nil
}

func (s *Storage) writeCollection(key []byte, list any) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(VaultBucket).Put(key, data); err != nil {
			return err
		}
		return touch(tx)
	})
}

// WipeAll removes the credential and both collections in a single transaction
func (s *Storage) WipeAll() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		for _, key := range [][]byte{KeyMedia, KeyText, KeyCredential} {
			if err := vault.Delete(key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		return touch(tx)
	})
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// ErrNoVaultID is returned when no vault id has been generated yet
var ErrNoVaultID = errors.New("vault_id not found")

// GetVaultID retrieves the vault ID from config bucket
func (s *Storage) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(ConfigVaultID)
		if data == nil {
			return ErrNoVaultID
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Storage) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ConfigBucket).Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// Photos are stored inline, so this matters after a reset.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	if err := bolt.Compact(dst, s.db, 0); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
