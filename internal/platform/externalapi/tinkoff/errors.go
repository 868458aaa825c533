package tinkoff

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound はプロバイダーが対象データを持っていないことを示します。
// 呼び出し側はエラーではなく「データなし」として扱うこと。
var ErrNotFound = errors.New("tinkoff: not found")

// RateLimitError はプロバイダーのクォータ超過を示します。
// ResetAfter はプロバイダーが指定するクォータ回復までの待機時間です。
type RateLimitError struct {
	ResetAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("tinkoff: resource exhausted, reset in %s", e.ResetAfter)
}

// APIError はプロバイダーが返したその他のエラー応答です。
type APIError struct {
	StatusCode  int
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("tinkoff: http %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("tinkoff: http %d: %s", e.StatusCode, e.Message)
}
