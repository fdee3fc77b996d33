package store

import "time"

type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"` // field name kept for users.json compatibility
}

type ChatRecord struct {
	ID         string    `json:"id"` // UUID
	UserMsg    string    `json:"userMessage"`
	AIResponse string    `json:"aiResponse"`
	CreatedAt  time.Time `json:"createdAt"`
}
