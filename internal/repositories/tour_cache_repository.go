package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/sunginkim/tourgo/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TourCacheRepository stores the last successful tourism API responses so the
// site can serve a stale-but-usable list when the upstream is down.
type TourCacheRepository interface {
	SavePage(ctx context.Context, queryKey string, page *models.TourPage) error
	GetPage(ctx context.Context, queryKey string) (*models.CachedTourPage, error)
	SaveDetail(ctx context.Context, cached *models.CachedTourDetail) error
	GetDetail(ctx context.Context, contentID string) (*models.CachedTourDetail, error)
}

// MongoTourCacheRepository implements TourCacheRepository for MongoDB
type MongoTourCacheRepository struct {
	pages   *mongo.Collection
	details *mongo.Collection
}

// NewMongoTourCacheRepository creates a new MongoTourCacheRepository
func NewMongoTourCacheRepository(db *mongo.Database) *MongoTourCacheRepository {
	return &MongoTourCacheRepository{
		pages:   db.Collection("tour_pages"),
		details: db.Collection("tour_details"),
	}
}

// SavePage upserts the last-good list page for a query signature
func (r *MongoTourCacheRepository) SavePage(ctx context.Context, queryKey string, page *models.TourPage) error {
	doc := models.CachedTourPage{
		QueryKey:  queryKey,
		Page:      *page,
		FetchedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.pages.ReplaceOne(ctx, bson.M{"query_key": queryKey}, doc, opts)
	return err
}

// GetPage retrieves the cached list page for a query signature
func (r *MongoTourCacheRepository) GetPage(ctx context.Context, queryKey string) (*models.CachedTourPage, error) {
	var cached models.CachedTourPage
	err := r.pages.FindOne(ctx, bson.M{"query_key": queryKey}).Decode(&cached)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no cached page for query")
		}
		return nil, err
	}
	return &cached, nil
}

// SaveDetail upserts the last-good detail fan-out for a contentId
func (r *MongoTourCacheRepository) SaveDetail(ctx context.Context, cached *models.CachedTourDetail) error {
	cached.FetchedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.details.ReplaceOne(ctx, bson.M{"content_id": cached.ContentID}, cached, opts)
	return err
}

// GetDetail retrieves the cached detail for a contentId
func (r *MongoTourCacheRepository) GetDetail(ctx context.Context, contentID string) (*models.CachedTourDetail, error) {
	var cached models.CachedTourDetail
	err := r.details.FindOne(ctx, bson.M{"content_id": contentID}).Decode(&cached)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no cached detail for content %s", contentID)
		}
		return nil, err
	}
	return &cached, nil
}
