package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"linescan/host/reader"
)

const sensorsBucket = "sensors"

// FrameStore persists captured frames in a bbolt database. Each sensor
// gets its own sub-bucket keyed by a big-endian sequence number, so the
// latest frame is always the last key.
type FrameStore struct {
	db *bolt.DB
}

func Open(path string) (*FrameStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open frame store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sensorsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &FrameStore{db: db}, nil
}

func (s *FrameStore) Close() error {
	return s.db.Close()
}

func sensorBucketName(id uint8) []byte {
	return []byte(fmt.Sprintf("frames_%d", id))
}

// PutFrame appends a frame under its sensor's bucket.
func (s *FrameStore) PutFrame(f reader.Frame) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(sensorsBucket))
		b, err := root.CreateBucketIfNotExists(sensorBucketName(f.SensorID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		return b.Put(key[:], data)
	})
}

// LatestFrame returns the most recent frame for a sensor, or an error
// if none have been captured.
func (s *FrameStore) LatestFrame(id uint8) (reader.Frame, error) {
	var f reader.Frame
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(sensorsBucket))
		b := root.Bucket(sensorBucketName(id))
		if b == nil {
			return fmt.Errorf("no frames captured for sensor %d", id)
		}
		_, data := b.Cursor().Last()
		if data == nil {
			return fmt.Errorf("no frames captured for sensor %d", id)
		}
		return yaml.Unmarshal(data, &f)
	})
	return f, err
}

// Sensors lists the sensor ids that have at least one captured frame.
func (s *FrameStore) Sensors() ([]uint8, error) {
	var ids []uint8
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(sensorsBucket))
		return root.ForEach(func(name, v []byte) error {
			if v != nil {
				return nil // not a sub-bucket
			}
			var id uint8
			if _, err := fmt.Sscanf(string(name), "frames_%d", &id); err == nil {
				ids = append(ids, id)
			}
			return nil
		})
	})
	return ids, err
}
