package mysql

import (
	"context"
	"errors"

	"PixelBattle/internal/battle/infra/persistence/model"
	"PixelBattle/internal/battle/report"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AutoMigrate 建表/补字段，启动时调用一次。
func (r *ReportRepository) AutoMigrate() error {
	if r == nil || r.db == nil {
		return errors.New("mysql db is nil")
	}
	return r.db.AutoMigrate(&model.MatchReport{})
}

func (r *ReportRepository) Save(ctx context.Context, m *report.MatchReport) error {
	if m == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("mysql db is nil")
	}
	row := model.FromReport(*m)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]report.MatchReport, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("mysql db is nil")
	}
	q := r.db.WithContext(ctx).Order("ended_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.MatchReport
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.MatchReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToReport())
	}
	return out, nil
}
