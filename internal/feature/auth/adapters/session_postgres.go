package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fonds_backend/internal/feature/auth/domain/entity"
	"fonds_backend/internal/feature/auth/usecase"
)

// SessionModel is the GORM model for the sessions table.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"`
	UserID    uint       `gorm:"index;not null"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"` // IPv6 max length
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

func (m *SessionModel) toEntity() *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: m.RevokedAt,
	}
}

func sessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		RevokedAt: s.RevokedAt,
	}
}

// sessionPostgres はSessionRepositoryインターフェースのPostgreSQL実装です。
// Redisが使えない環境向けのフォールバックです。
type sessionPostgres struct {
	db *gorm.DB
}

var _ usecase.SessionRepository = (*sessionPostgres)(nil)

// NewSessionRepository creates a new instance of sessionPostgres.
func NewSessionRepository(db *gorm.DB) *sessionPostgres {
	return &sessionPostgres{db: db}
}

// Create persists a new session to the database.
func (r *sessionPostgres) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(sessionModelFromEntity(session)).Error
}

// FindByID retrieves a session by its refresh token ID.
func (r *sessionPostgres) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var m SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// Revoke marks a session as revoked by its ID.
func (r *sessionPostgres) Revoke(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// RevokeAllByUserID revokes all active sessions for a given user.
func (r *sessionPostgres) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// CountByUserID returns the number of active sessions for a user.
func (r *sessionPostgres) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}

// DeleteOldestByUserID deletes the oldest session for a user.
func (r *sessionPostgres) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest SessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&oldest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.WithContext(ctx).Delete(&oldest).Error
}

// DeleteExpired removes all expired sessions from storage.
func (r *sessionPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&SessionModel{})
	return res.RowsAffected, res.Error
}
