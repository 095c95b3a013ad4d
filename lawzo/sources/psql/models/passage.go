package models

import "github.com/pgvector/pgvector-go"

// Passage is one chunk of reference legal text with its embedding. Rows are
// written by the indexing job; this service only reads them.
type Passage struct {
	ID        uint            `gorm:"primaryKey"`
	Content   string          `gorm:"type:text;not null"`
	Source    string          `gorm:"type:varchar(255);index"`
	Category  string          `gorm:"type:varchar(100);index"`
	Embedding pgvector.Vector `gorm:"type:vector"`
}

func (Passage) TableName() string {
	return "passages"
}
