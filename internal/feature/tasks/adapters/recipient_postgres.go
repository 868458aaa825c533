package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	authentity "fonds_backend/internal/feature/auth/domain/entity"
	"fonds_backend/internal/feature/tasks/usecase"
)

// recipientPostgres はusersテーブルからレポート宛先を引くRecipientDirectory実装です。
type recipientPostgres struct {
	db *gorm.DB
}

var _ usecase.RecipientDirectory = (*recipientPostgres)(nil)

// NewRecipientDirectory は指定されたDB接続でrecipientPostgresの新しいインスタンスを生成します。
func NewRecipientDirectory(db *gorm.DB) *recipientPostgres {
	return &recipientPostgres{db: db}
}

// FindRecipient はユーザーIDからメール宛先を解決します。
func (r *recipientPostgres) FindRecipient(ctx context.Context, userID uint) (*usecase.Recipient, error) {
	var u authentity.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &usecase.Recipient{Email: u.Email, Username: u.Username}, nil
}
