//go:build !js && !wasm
// +build !js,!wasm

// Package journal records match and mutation events in a sqlite file so
// sessions can be reviewed after the fact. The matcher itself never
// depends on it; a service without a journal simply records nothing.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultJournalFile = "myodna_journal.sqlite3"
const errJournalNil = "journal is nil"

// Event kinds.
const (
	KindMatch  = "match"
	KindSave   = "save"
	KindDelete = "delete"
)

// Event is one recorded interaction with the matcher.
type Event struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind      string  `gorm:"index:idx_event_kind" json:"kind"`
	Label     string  `gorm:"index:idx_event_label" json:"label"`
	Distance  float64 `json:"distance"`
	Compared  int     `json:"compared"`
	Accepted  bool    `json:"accepted"`
	CreatedAt time.Time
}

type Log struct {
	DB *gorm.DB
	db *sql.DB
}

// Open opens the journal at MYO_JOURNAL_PATH, falling back to the
// default file in the working directory.
func Open() (*Log, error) {
	path := os.Getenv("MYO_JOURNAL_PATH")
	if path == "" {
		path = DefaultJournalFile
	}
	return OpenPath(path)
}

func OpenPath(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(path) != "." {
			return nil, fmt.Errorf("creating journal dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	// The journal has a single writer, so a small pool is plenty.
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Event{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Log{DB: db, db: sqlDB}, nil
}

func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// RecordMatch stores the outcome of one classification. A non-finite
// distance means no reference was comparable; it is stored as -1 since
// sqlite round-trips of Inf and NaN are not worth trusting.
func (l *Log) RecordMatch(label string, distance float64, compared int) error {
	if l == nil || l.DB == nil {
		return errors.New(errJournalNil)
	}
	if math.IsInf(distance, 0) || math.IsNaN(distance) {
		distance = -1
	}
	event := Event{
		ID:       uuid.NewString(),
		Kind:     KindMatch,
		Label:    label,
		Distance: distance,
		Compared: compared,
	}
	if err := l.DB.Create(&event).Error; err != nil {
		return fmt.Errorf("recording match event: %w", err)
	}
	return nil
}

// RecordSave stores the outcome of a save operation.
func (l *Log) RecordSave(label string, accepted bool) error {
	return l.recordMutation(KindSave, label, accepted)
}

// RecordDelete stores the outcome of a delete operation.
func (l *Log) RecordDelete(label string, accepted bool) error {
	return l.recordMutation(KindDelete, label, accepted)
}

func (l *Log) recordMutation(kind, label string, accepted bool) error {
	if l == nil || l.DB == nil {
		return errors.New(errJournalNil)
	}
	event := Event{
		ID:       uuid.NewString(),
		Kind:     kind,
		Label:    label,
		Distance: -1,
		Accepted: accepted,
	}
	if err := l.DB.Create(&event).Error; err != nil {
		return fmt.Errorf("recording %s event: %w", kind, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(limit int) ([]Event, error) {
	if l == nil || l.DB == nil {
		return nil, errors.New(errJournalNil)
	}
	if limit <= 0 {
		limit = 50
	}
	var events []Event
	if err := l.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("querying recent events: %w", err)
	}
	return events, nil
}

// Totals returns the number of recorded events per kind.
func (l *Log) Totals() (map[string]int64, error) {
	if l == nil || l.DB == nil {
		return nil, errors.New(errJournalNil)
	}

	type kindCount struct {
		Kind  string
		Count int64
	}
	var rows []kindCount
	if err := l.DB.Model(&Event{}).
		Select("kind, count(*) as count").
		Group("kind").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Kind] = row.Count
	}
	return totals, nil
}

// Prune removes events created before the cutoff and reports how many
// were dropped.
func (l *Log) Prune(before time.Time) (int64, error) {
	if l == nil || l.DB == nil {
		return 0, errors.New(errJournalNil)
	}
	res := l.DB.Where("created_at < ?", before).Delete(&Event{})
	if res.Error != nil {
		return 0, fmt.Errorf("pruning events: %w", res.Error)
	}
	return res.RowsAffected, nil
}
