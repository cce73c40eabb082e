package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sunginkim/tourgo/backend/internal/models"
	"github.com/sunginkim/tourgo/backend/internal/repositories"
	"github.com/sunginkim/tourgo/backend/internal/tourapi"
	"gorm.io/gorm"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	tourClient         tourapi.TourClient
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, tourClient tourapi.TourClient) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		tourClient:         tourClient,
	}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/tours/:contentId/bookmark", h.AddBookmark)
	g.DELETE("/tours/:contentId/bookmark", h.RemoveBookmark)
	g.GET("/bookmarks", h.ListBookmarks)
	g.POST("/bookmarks/sync", h.SyncBookmarks)
}

// AddBookmark bookmarks an attraction for the current user
func (h *BookmarkHandler) AddBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	contentID := c.Param("contentId")

	// Check if already bookmarked
	isBookmarked, err := h.bookmarkRepository.IsBookmarked(currentUserID, contentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isBookmarked {
		return echo.NewHTTPError(http.StatusConflict, "Attraction already bookmarked")
	}

	bookmark := &models.Bookmark{
		UserID:    currentUserID,
		ContentID: contentID,
	}

	if err := h.bookmarkRepository.AddBookmark(bookmark); err != nil {
		// A concurrent toggle can slip past the check; the unique constraint
		// reports it as a duplicate key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Attraction already bookmarked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": true}})
}

// RemoveBookmark removes an attraction from the current user's bookmarks
func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	contentID := c.Param("contentId")

	if err := h.bookmarkRepository.RemoveBookmark(currentUserID, contentID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Bookmark not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": false}})
}

// BookmarkedTour is one bookmark enriched with its attraction detail. When
// the upstream fetch for an item fails, the bare contentId is returned with
// detail_unavailable set and the rest of the list still renders.
type BookmarkedTour struct {
	ContentID         string             `json:"content_id"`
	CreatedAt         time.Time          `json:"created_at"`
	Tour              *models.TourDetail `json:"tour,omitempty"`
	DetailUnavailable bool               `json:"detail_unavailable,omitempty"`
}

// ListBookmarks returns the current user's bookmarks newest-first, each
// enriched with its attraction detail via concurrent upstream fetches.
func (h *BookmarkHandler) ListBookmarks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx := c.Request().Context()
	enriched := make([]BookmarkedTour, len(bookmarks))

	var wg sync.WaitGroup
	for i, b := range bookmarks {
		enriched[i] = BookmarkedTour{ContentID: b.ContentID, CreatedAt: b.CreatedAt}
		wg.Add(1)
		go func(i int, contentID string) {
			defer wg.Done()
			detail, err := h.tourClient.DetailCommon(ctx, contentID)
			if err != nil {
				log.Printf("Bookmark enrichment failed for %s: %v", contentID, err)
				enriched[i].DetailUnavailable = true
				return
			}
			enriched[i].Tour = detail
		}(i, b.ContentID)
	}
	wg.Wait()

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"bookmarks": enriched,
		},
		"meta": echo.Map{
			"totalItems": len(bookmarks),
		},
	})
}

// SyncBookmarks merges the bookmarks an anonymous session kept in browser
// storage into the signed-in user's set. Duplicates are ignored via the
// unique constraint; the merged set is returned.
func (h *BookmarkHandler) SyncBookmarks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SyncBookmarksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	deviceID, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid device_id")
	}

	log.Printf("Syncing %d local bookmarks from device %s for user %d",
		len(req.ContentIDs), deviceID, currentUserID)

	if err := h.bookmarkRepository.MergeBookmarks(currentUserID, req.ContentIDs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	merged, err := h.bookmarkRepository.GetBookmarksByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"bookmarks": merged,
		},
		"meta": echo.Map{
			"totalItems": len(merged),
		},
	})
}
