package repositories

import (
	"fmt"

	"github.com/sunginkim/tourgo/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	AddBookmark(bookmark *models.Bookmark) error
	RemoveBookmark(userID uint, contentID string) error
	IsBookmarked(userID uint, contentID string) (bool, error)
	GetBookmarksByUser(userID uint) ([]models.Bookmark, error)
	GetBookmarkedIDs(userID uint, contentIDs []string) (map[string]bool, error)
	MergeBookmarks(userID uint, contentIDs []string) error
}

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) AddBookmark(bookmark *models.Bookmark) error {
	return r.db.Create(bookmark).Error
}

func (r *PostgresBookmarkRepository) RemoveBookmark(userID uint, contentID string) error {
	res := r.db.Where("user_id = ? AND content_id = ?", userID, contentID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bookmark not found")
	}
	return nil
}

func (r *PostgresBookmarkRepository) IsBookmarked(userID uint, contentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND content_id = ?", userID, contentID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) GetBookmarksByUser(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, err
}

func (r *PostgresBookmarkRepository) GetBookmarkedIDs(userID uint, contentIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(contentIDs) == 0 {
		return result, nil
	}
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ? AND content_id IN ?", userID, contentIDs).Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		result[b.ContentID] = true
	}
	return result, nil
}

// MergeBookmarks upserts the bookmarks an anonymous session accumulated
// locally. Pairs the user already has are skipped via the unique constraint.
func (r *PostgresBookmarkRepository) MergeBookmarks(userID uint, contentIDs []string) error {
	if len(contentIDs) == 0 {
		return nil
	}
	bookmarks := make([]models.Bookmark, 0, len(contentIDs))
	for _, id := range contentIDs {
		bookmarks = append(bookmarks, models.Bookmark{UserID: userID, ContentID: id})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&bookmarks).Error
}
