package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/th3jlux/toolsmith/internal/domain"
)

var (
	ErrToolExists   = errors.New("tool already exists")
	ErrToolNotFound = errors.New("tool not found")
	ErrRunNotFound  = errors.New("generation run not found")
)

var (
	toolBucket = []byte("tools")
	runBucket  = []byte("runs")
)

// Registry is the persistent tool index plus the generation run log,
// backed by a single bbolt file. Tools are keyed by href, runs by id.
type Registry struct {
	db *bolt.DB
}

func OpenRegistry(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure registry dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})

	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{toolBucket, runBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Registry{db: db}, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) InsertTool(tool domain.Tool) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(toolBucket)

		if bucket.Get([]byte(tool.Href)) != nil {
			return fmt.Errorf("%w: %s", ErrToolExists, tool.Href)
		}

		record, err := json.Marshal(tool)

		if err != nil {
			return err
		}

		return bucket.Put([]byte(tool.Href), record)
	})
}

// UpsertTool registers a tool, overwriting any previous record for the
// same href. Used by the workspace reconciler, where re-registering an
// existing tool is routine.
func (r *Registry) UpsertTool(tool domain.Tool) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		record, err := json.Marshal(tool)

		if err != nil {
			return err
		}

		return tx.Bucket(toolBucket).Put([]byte(tool.Href), record)
	})
}

func (r *Registry) GetTool(href string) (*domain.Tool, error) {
	var tool domain.Tool

	err := r.db.View(func(tx *bolt.Tx) error {
		record := tx.Bucket(toolBucket).Get([]byte(href))

		if record == nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, href)
		}

		return json.Unmarshal(record, &tool)
	})

	if err != nil {
		return nil, err
	}

	return &tool, nil
}

func (r *Registry) ListTools() ([]domain.Tool, error) {
	var tools []domain.Tool

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(toolBucket).ForEach(func(_, record []byte) error {
			var tool domain.Tool

			if err := json.Unmarshal(record, &tool); err != nil {
				return err
			}

			tools = append(tools, tool)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(tools, func(i, j int) bool { return tools[i].Href < tools[j].Href })

	return tools, nil
}

func (r *Registry) DeleteTool(href string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(toolBucket)

		if bucket.Get([]byte(href)) == nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, href)
		}

		return bucket.Delete([]byte(href))
	})
}

func (r *Registry) InsertRun(run domain.GenerationRun) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		record, err := json.Marshal(run)

		if err != nil {
			return err
		}

		return tx.Bucket(runBucket).Put([]byte(run.Id), record)
	})
}

func (r *Registry) UpdateRunState(id string, state string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(runBucket)
		record := bucket.Get([]byte(id))

		if record == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}

		var run domain.GenerationRun

		if err := json.Unmarshal(record, &run); err != nil {
			return err
		}

		run.State = state

		updated, err := json.Marshal(run)

		if err != nil {
			return err
		}

		return bucket.Put([]byte(id), updated)
	})
}

func (r *Registry) GetRun(id string) (*domain.GenerationRun, error) {
	var run domain.GenerationRun

	err := r.db.View(func(tx *bolt.Tx) error {
		record := tx.Bucket(runBucket).Get([]byte(id))

		if record == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}

		return json.Unmarshal(record, &run)
	})

	if err != nil {
		return nil, err
	}

	return &run, nil
}
