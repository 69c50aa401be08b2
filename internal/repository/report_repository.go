package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/qa-admin-service/internal/domain"
	"github.com/spec-kit/qa-admin-service/internal/persistence"
	apperrors "github.com/spec-kit/qa-admin-service/pkg/util"
)

// ReportCollection is the name of the test-report collection.
const ReportCollection = "test_reports"

// ReportRepository defines persistence access for test reports.
type ReportRepository interface {
	Insert(ctx context.Context, report *domain.Report) error
	List(ctx context.Context) ([]domain.Report, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.ReportStatus) (int64, error)
}

type reportRepository struct {
	store *persistence.Mongo
}

// NewReportRepository returns a Mongo-backed implementation.
func NewReportRepository(store *persistence.Mongo) ReportRepository {
	return &reportRepository{store: store}
}

// collection resolves the handle per call so a reconnect that swapped the
// underlying client is picked up transparently.
func (r *reportRepository) collection() (*mongo.Collection, error) {
	coll, err := r.store.Collection(ReportCollection)
	if err != nil {
		return nil, apperrors.NewUnavailable("Database connection unavailable", err)
	}
	return coll, nil
}

func (r *reportRepository) Insert(ctx context.Context, report *domain.Report) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	res, err := coll.InsertOne(ctx, report)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

func (r *reportRepository) List(ctx context.Context) ([]domain.Report, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []domain.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	var report domain.Report
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.ReportStatus) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
