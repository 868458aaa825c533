// Package entity defines the domain models for the tasks feature.
package entity

import "time"

// Task はユーザーごとのタスクリストの1項目です。
type Task struct {
	ID          uint
	UserID      uint
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
