package storage

import bolt "go.etcd.io/bbolt"

// putRaw stores value under a vault key as is, bypassing JSON encoding
func (s *Storage) putRaw(key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(VaultBucket).Put(key, value)
	})
}
