// Package model provides the persistent data models for docsearch.
package model

import (
	"time"
)

// Document represents an indexed document in the registry.
type Document struct {
	Filename  string    `json:"filename" gorm:"primaryKey;type:varchar(255)"`
	Path      string    `json:"path" gorm:"type:varchar(1024);not null"`
	Chunks    int       `json:"chunks" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "docsearch_documents"
}

// Chunk represents a stored text chunk, keyed by its vector id.
type Chunk struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(512)"`
	Filename    string    `json:"filename" gorm:"type:varchar(255);index;not null"`
	ChunkIndex  int       `json:"chunk_id" gorm:"not null"`
	TotalChunks int       `json:"total_chunks" gorm:"not null"`
	Content     string    `json:"text" gorm:"type:text;not null"`
	StartPos    int       `json:"start" gorm:"default:0"`
	EndPos      int       `json:"end" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Chunk.
func (Chunk) TableName() string {
	return "docsearch_chunks"
}
