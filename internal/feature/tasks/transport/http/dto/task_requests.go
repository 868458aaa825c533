// Package dto defines data transfer objects for the tasks HTTP API.
package dto

// AddTaskReq represents the request body for POST /tasks.
type AddTaskReq struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// TaskItem represents one task in API responses.
type TaskItem struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
