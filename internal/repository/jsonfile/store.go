// Package jsonfile persists the whole schedule document as a single JSON file,
// the only storage this application uses.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-bot/internal/model"
)

// Store owns the in-memory document and its file on disk. All reads and writes
// go through the repo types in this package; nothing else mutates the document.
type Store struct {
	path      string
	saveDelay time.Duration
	log       *zap.Logger

	mu    sync.Mutex
	doc   *model.Document
	timer *time.Timer
}

// Open loads the document at path, creating it with sane defaults when absent.
// Older files with missing keys are backfilled without discarding data.
func Open(path string, saveDelay time.Duration, log *zap.Logger) (*Store, error) {
	st := &Store{path: path, saveDelay: saveDelay, log: log}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		st.doc = &model.Document{
			Employees:  []model.Employee{},
			Schedule:   model.Schedule{},
			StoreHours: model.DefaultStoreHours(),
		}
		if err := st.writeLocked(); err != nil {
			return nil, err
		}
		log.Info("created new schedule document", zap.String("path", path))
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	st.doc = &doc
	if st.backfill() {
		if err := st.writeLocked(); err != nil {
			return nil, err
		}
		log.Info("backfilled older schedule document", zap.String("path", path))
	}
	return st, nil
}

// backfill fills keys missing from older document versions and assigns stable
// IDs to legacy shift records. Reports whether anything changed.
func (st *Store) backfill() bool {
	changed := false
	if st.doc.Employees == nil {
		st.doc.Employees = []model.Employee{}
		changed = true
	}
	if st.doc.Schedule == nil {
		st.doc.Schedule = model.Schedule{}
		changed = true
	}
	if st.doc.StoreHours == nil {
		st.doc.StoreHours = model.DefaultStoreHours()
		changed = true
	}
	for i := range st.doc.Employees {
		e := &st.doc.Employees[i]
		if e.Availability == nil {
			e.Availability = model.Availability{}
			for _, d := range model.Weekdays {
				e.Availability[d] = []string{"off"}
			}
			changed = true
		}
		if e.Name == "" {
			e.Name = model.DisplayName(e.FirstName, e.LastName)
			changed = true
		}
	}
	for _, days := range st.doc.Schedule {
		for day, shifts := range days {
			for i := range shifts {
				if shifts[i].ID == "" {
					shifts[i].ID = uuid.NewString()
					changed = true
				}
			}
			days[day] = shifts
		}
	}
	return changed
}

// SaveNow flushes the document to disk synchronously, cancelling any pending
// debounced write.
func (st *Store) SaveNow() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.saveNowLocked()
}

func (st *Store) saveNowLocked() error {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	return st.writeLocked()
}

// scheduleSave coalesces rapid edits into one write saveDelay after the last
// change. The last timer wins; an in-flight write is never aborted.
func (st *Store) scheduleSave() {
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(st.saveDelay, func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		if err := st.writeLocked(); err != nil {
			st.log.Error("debounced save failed", zap.Error(err))
		}
	})
}

func (st *Store) writeLocked() error {
	data, err := json.MarshalIndent(st.doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tmp := st.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		return fmt.Errorf("replace %s: %w", st.path, err)
	}
	return nil
}

// Close flushes any pending write.
func (st *Store) Close() error {
	return st.SaveNow()
}
