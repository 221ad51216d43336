// Package boltstore implements the domain repositories on a local bbolt file.
// Records are stored as JSON, one bucket per aggregate.
package boltstore

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

func put[T any](tx *bbolt.Tx, bucket, key []byte, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", bucket, err)
	}
	return tx.Bucket(bucket).Put(key, data)
}

// get returns nil, nil when the key is absent
func get[T any](tx *bbolt.Tx, bucket, key []byte) (*T, error) {
	data := tx.Bucket(bucket).Get(key)
	if data == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", bucket, err)
	}
	return &v, nil
}

func list[T any](tx *bbolt.Tx, bucket []byte, keep func(*T) bool) ([]T, error) {
	out := []T{}
	err := tx.Bucket(bucket).ForEach(func(_, data []byte) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode %s record: %w", bucket, err)
		}
		if keep == nil || keep(&v) {
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

func exists(tx *bbolt.Tx, bucket, key []byte) bool {
	return tx.Bucket(bucket).Get(key) != nil
}

// replaceAll empties bucket and writes items in order
func replaceAll[T any](tx *bbolt.Tx, bucket []byte, items []T, key func(*T) []byte) error {
	if err := tx.DeleteBucket(bucket); err != nil {
		return err
	}
	if _, err := tx.CreateBucket(bucket); err != nil {
		return err
	}
	for i := range items {
		if err := put(tx, bucket, key(&items[i]), &items[i]); err != nil {
			return err
		}
	}
	return nil
}
