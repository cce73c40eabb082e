package handlers

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sunginkim/tourgo/backend/internal/models"
	"github.com/sunginkim/tourgo/backend/internal/tourapi"
)

// fakeTourClient implements tourapi.TourClient with per-operation hooks.
type fakeTourClient struct {
	areaBasedList func(ctx context.Context, p tourapi.ListParams) (*models.TourPage, error)
	searchKeyword func(ctx context.Context, keyword string, p tourapi.ListParams) (*models.TourPage, error)
	detailCommon  func(ctx context.Context, contentID string) (*models.TourDetail, error)
	detailIntro   func(ctx context.Context, contentID, contentTypeID string) (*models.TourIntro, error)
	detailImages  func(ctx context.Context, contentID string) ([]models.TourImage, error)
	areaCodes     func(ctx context.Context) ([]models.AreaCode, error)
}

func (f *fakeTourClient) AreaBasedList(ctx context.Context, p tourapi.ListParams) (*models.TourPage, error) {
	if f.areaBasedList == nil {
		return &models.TourPage{}, nil
	}
	return f.areaBasedList(ctx, p)
}

func (f *fakeTourClient) SearchKeyword(ctx context.Context, keyword string, p tourapi.ListParams) (*models.TourPage, error) {
	if f.searchKeyword == nil {
		return &models.TourPage{}, nil
	}
	return f.searchKeyword(ctx, keyword, p)
}

func (f *fakeTourClient) DetailCommon(ctx context.Context, contentID string) (*models.TourDetail, error) {
	if f.detailCommon == nil {
		return &models.TourDetail{ContentID: contentID}, nil
	}
	return f.detailCommon(ctx, contentID)
}

func (f *fakeTourClient) DetailIntro(ctx context.Context, contentID, contentTypeID string) (*models.TourIntro, error) {
	if f.detailIntro == nil {
		return &models.TourIntro{ContentID: contentID}, nil
	}
	return f.detailIntro(ctx, contentID, contentTypeID)
}

func (f *fakeTourClient) DetailImages(ctx context.Context, contentID string) ([]models.TourImage, error) {
	if f.detailImages == nil {
		return nil, nil
	}
	return f.detailImages(ctx, contentID)
}

func (f *fakeTourClient) AreaCodes(ctx context.Context) ([]models.AreaCode, error) {
	if f.areaCodes == nil {
		return nil, nil
	}
	return f.areaCodes(ctx)
}

// fakeBookmarkRepo is an in-memory BookmarkRepository.
type fakeBookmarkRepo struct {
	bookmarks []models.Bookmark
	nextID    uint
	addErr    error // forced AddBookmark failure
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{nextID: 1}
}

func (r *fakeBookmarkRepo) AddBookmark(bookmark *models.Bookmark) error {
	if r.addErr != nil {
		return r.addErr
	}
	for _, b := range r.bookmarks {
		if b.UserID == bookmark.UserID && b.ContentID == bookmark.ContentID {
			return gorm.ErrDuplicatedKey
		}
	}
	bookmark.ID = r.nextID
	r.nextID++
	r.bookmarks = append(r.bookmarks, *bookmark)
	return nil
}

func (r *fakeBookmarkRepo) RemoveBookmark(userID uint, contentID string) error {
	for i, b := range r.bookmarks {
		if b.UserID == userID && b.ContentID == contentID {
			r.bookmarks = append(r.bookmarks[:i], r.bookmarks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("bookmark not found")
}

func (r *fakeBookmarkRepo) IsBookmarked(userID uint, contentID string) (bool, error) {
	for _, b := range r.bookmarks {
		if b.UserID == userID && b.ContentID == contentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookmarkRepo) GetBookmarksByUser(userID uint) ([]models.Bookmark, error) {
	var out []models.Bookmark
	for _, b := range r.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookmarkRepo) GetBookmarkedIDs(userID uint, contentIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	for _, id := range contentIDs {
		if ok, _ := r.IsBookmarked(userID, id); ok {
			result[id] = true
		}
	}
	return result, nil
}

func (r *fakeBookmarkRepo) MergeBookmarks(userID uint, contentIDs []string) error {
	for _, id := range contentIDs {
		if ok, _ := r.IsBookmarked(userID, id); ok {
			continue
		}
		_ = r.AddBookmark(&models.Bookmark{UserID: userID, ContentID: id})
	}
	return nil
}

// fakeTourCache is an in-memory TourCacheRepository.
type fakeTourCache struct {
	pages   map[string]models.CachedTourPage
	details map[string]models.CachedTourDetail
}

func newFakeTourCache() *fakeTourCache {
	return &fakeTourCache{
		pages:   make(map[string]models.CachedTourPage),
		details: make(map[string]models.CachedTourDetail),
	}
}

func (c *fakeTourCache) SavePage(ctx context.Context, queryKey string, page *models.TourPage) error {
	c.pages[queryKey] = models.CachedTourPage{QueryKey: queryKey, Page: *page}
	return nil
}

func (c *fakeTourCache) GetPage(ctx context.Context, queryKey string) (*models.CachedTourPage, error) {
	cached, ok := c.pages[queryKey]
	if !ok {
		return nil, fmt.Errorf("no cached page for query")
	}
	return &cached, nil
}

func (c *fakeTourCache) SaveDetail(ctx context.Context, cached *models.CachedTourDetail) error {
	c.details[cached.ContentID] = *cached
	return nil
}

func (c *fakeTourCache) GetDetail(ctx context.Context, contentID string) (*models.CachedTourDetail, error) {
	cached, ok := c.details[contentID]
	if !ok {
		return nil, fmt.Errorf("no cached detail for content %s", contentID)
	}
	return &cached, nil
}

// fakeUserRepo is an in-memory UserRepository. It enforces the same
// uniqueness the Postgres schema does: emails are unique, and firebase_uid
// is unique only among non-NULL values.
type fakeUserRepo struct {
	users  []models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
		if u.FirebaseUID != nil && user.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].FirebaseUID != nil && *r.users[i].FirebaseUID == firebaseUID {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
