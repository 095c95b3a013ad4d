package dao

import (
	"context"

	"lawzo/lawzo/sources/psql/models"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PassageDAO struct {
	DB *gorm.DB
}

func NewPassageDAO(db *gorm.DB) *PassageDAO {
	return &PassageDAO{DB: db}
}

// Nearest returns the k passages closest to embedding by L2 distance.
func (dao *PassageDAO) Nearest(ctx context.Context, embedding []float32, k int) ([]models.Passage, error) {
	var passages []models.Passage
	err := dao.DB.WithContext(ctx).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{pgvector.NewVector(embedding)}},
		}).
		Limit(k).
		Find(&passages).Error
	if err != nil {
		return nil, err
	}
	return passages, nil
}
