// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fonds_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数です。
	minPasswordLength = 8
	// sessionTTL はリフレッシュトークンの有効期間です。
	sessionTTL = 30 * 24 * time.Hour
	// maxSessionsPerUser を超えると最も古いセッションが追い出されます。
	maxSessionsPerUser = 5
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// TokenPair はアクセストークンとリフレッシュトークンのペアです。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // アクセストークンの有効秒数
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	accessTTL    time.Duration
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, accessTTL time.Duration) *authUsecase {
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		accessTTL:    accessTTL,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *authUsecase) Signup(ctx context.Context, email, username, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Email: email, Username: username, Password: string(hashed)}
	return u.users.Create(ctx, user)
}

// Login はユーザーを認証し、成功時にトークンペアを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザー未検出時もbcrypt比較が常に走るようにするダミーハッシュ
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, errors.New("invalid email or password")
	}

	return u.issueTokens(ctx, user, userAgent, ipAddress)
}

// Refresh はリフレッシュトークンを検証し、新しいトークンペアに交換します。
// 使用済みトークンは失効させるローテーション方式です。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if session.IsRevoked() {
		// 失効済みトークンの再利用は盗難の兆候。該当ユーザーの全セッションを落とす。
		_ = u.sessions.RevokeAllByUserID(ctx, session.UserID)
		return nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}
	return u.issueTokens(ctx, user, session.UserAgent, session.IPAddress)
}

// Logout は1つのセッションを失効させます。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

// issueTokens はセッションを作成し、トークンペアを発行します。
// ユーザーあたりのセッション数には上限があり、超えると最古のものを削除します。
func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User, userAgent, ipAddress string) (*TokenPair, error) {
	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count >= maxSessionsPerUser {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &entity.Session{
		ID:        refreshToken,
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.accessTTL.Seconds()),
	}, nil
}

// newRefreshToken は64文字のhex文字列を生成します。
func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
