// Package storage keeps a local journal of delivered RSVPs in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wedding-site/internal/models"
)

// ErrNotFound is returned when no response matches.
var ErrNotFound = errors.New("response not found")

type responseRecord struct {
	ID                  string              `gorm:"primaryKey;size:36"`
	GuestID             string              `gorm:"index"`
	Name                string              `gorm:"not null"`
	Email               string              `gorm:"index;not null"`
	Attendance          string              `gorm:"index;size:8;not null"`
	Meals               []models.MealChoice `gorm:"serializer:json"`
	DietaryRestrictions string
	SongRequest         string
	SubmittedAt         time.Time `gorm:"index"`
}

func (responseRecord) TableName() string { return "rsvp_responses" }

func toRecord(r models.Response) responseRecord {
	return responseRecord{
		ID:                  r.ID,
		GuestID:             r.GuestID,
		Name:                r.Name,
		Email:               r.Email,
		Attendance:          string(r.Attendance),
		Meals:               r.Meals,
		DietaryRestrictions: r.DietaryRestrictions,
		SongRequest:         r.SongRequest,
		SubmittedAt:         r.SubmittedAt,
	}
}

func (rec responseRecord) model() models.Response {
	return models.Response{
		ID:                  rec.ID,
		GuestID:             rec.GuestID,
		Name:                rec.Name,
		Email:               rec.Email,
		Attendance:          models.Attendance(rec.Attendance),
		Meals:               rec.Meals,
		DietaryRestrictions: rec.DietaryRestrictions,
		SongRequest:         rec.SongRequest,
		SubmittedAt:         rec.SubmittedAt.UTC(),
	}
}

// Storage is the response journal.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (and migrates) the journal at path. An empty path or
// ":memory:" opens an in-memory database.
func NewStorage(path string) (*Storage, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := db.AutoMigrate(&responseRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}
	return &Storage{db: db}, nil
}

func sqliteDSN(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		return "file::memory:", nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL", filepath.ToSlash(path)), nil
}

// Record stores a delivered response. A missing id or timestamp is filled in.
func (s *Storage) Record(ctx context.Context, resp models.Response) error {
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = time.Now().UTC()
	}
	rec := toRecord(resp)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record response: %w", err)
	}
	return nil
}

// GetAllResponses returns every response, oldest first.
func (s *Storage) GetAllResponses(ctx context.Context) ([]models.Response, error) {
	return s.find(ctx, s.db.WithContext(ctx))
}

// GetResponsesByAttendance returns responses with the given answer.
func (s *Storage) GetResponsesByAttendance(ctx context.Context, a models.Attendance) ([]models.Response, error) {
	return s.find(ctx, s.db.WithContext(ctx).Where("attendance = ?", string(a)))
}

// LatestForEmail returns the most recent response sent from email.
func (s *Storage) LatestForEmail(ctx context.Context, email string) (models.Response, error) {
	var rec responseRecord
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("submitted_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Response{}, ErrNotFound
	}
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to query response: %w", err)
	}
	return rec.model(), nil
}

func (s *Storage) find(ctx context.Context, q *gorm.DB) ([]models.Response, error) {
	var recs []responseRecord
	if err := q.Order("submitted_at ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	out := make([]models.Response, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.model())
	}
	return out, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
