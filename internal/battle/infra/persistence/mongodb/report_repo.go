package mongodb

import (
	"context"
	"errors"

	"PixelBattle/internal/battle/report"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "match_report"

type ReportRepository struct {
	coll *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

// EnsureIndexes 为按结束时间倒序查询建索引，启动时调用一次。
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb report collection is nil")
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ended_at", Value: -1}},
	})
	return err
}

func (r *ReportRepository) Save(ctx context.Context, m *report.MatchReport) error {
	if m == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb report collection is nil")
	}
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": m.ID},
		m,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]report.MatchReport, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb report collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "ended_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []report.MatchReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
