package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sunginkim/tourgo/backend/internal/models"
	"github.com/sunginkim/tourgo/backend/validators"
)

func newBookmarkContext(t *testing.T, contentID string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(t, "/api/v1/tours/"+contentID+"/bookmark")
	c.SetPath("/api/v1/tours/:contentId/bookmark")
	c.SetParamNames("contentId")
	c.SetParamValues(contentID)
	return c, rec
}

func TestAddBookmark(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		h := NewBookmarkHandler(newFakeBookmarkRepo(), &fakeTourClient{})

		c, _ := newBookmarkContext(t, "100")
		err := h.AddBookmark(c)
		if he := httpError(t, err); he.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", he.Code)
		}
	})

	t.Run("bookmarks an attraction", func(t *testing.T) {
		repo := newFakeBookmarkRepo()
		h := NewBookmarkHandler(repo, &fakeTourClient{})

		c, rec := newBookmarkContext(t, "100")
		asUser(c, 7)
		if err := h.AddBookmark(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		resp := decodeResponse(t, rec)
		if resp["data"].(map[string]interface{})["bookmarked"] != true {
			t.Error("expected bookmarked true")
		}
		if ok, _ := repo.IsBookmarked(7, "100"); !ok {
			t.Error("expected bookmark stored")
		}
	})

	t.Run("rejects duplicate bookmark with 409", func(t *testing.T) {
		repo := newFakeBookmarkRepo()
		_ = repo.AddBookmark(&models.Bookmark{UserID: 7, ContentID: "100"})
		h := NewBookmarkHandler(repo, &fakeTourClient{})

		c, _ := newBookmarkContext(t, "100")
		asUser(c, 7)
		err := h.AddBookmark(c)
		if he := httpError(t, err); he.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", he.Code)
		}
	})

	t.Run("maps duplicate key on insert to 409", func(t *testing.T) {
		// A concurrent request can insert between the existence check and
		// the create; the unique constraint then rejects the insert.
		repo := newFakeBookmarkRepo()
		repo.addErr = gorm.ErrDuplicatedKey
		h := NewBookmarkHandler(repo, &fakeTourClient{})

		c, _ := newBookmarkContext(t, "100")
		asUser(c, 7)
		err := h.AddBookmark(c)
		if he := httpError(t, err); he.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", he.Code)
		}
	})
}

func TestRemoveBookmark(t *testing.T) {
	t.Run("removes an existing bookmark", func(t *testing.T) {
		repo := newFakeBookmarkRepo()
		_ = repo.AddBookmark(&models.Bookmark{UserID: 7, ContentID: "100"})
		h := NewBookmarkHandler(repo, &fakeTourClient{})

		c, rec := newBookmarkContext(t, "100")
		asUser(c, 7)
		if err := h.RemoveBookmark(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		resp := decodeResponse(t, rec)
		if resp["data"].(map[string]interface{})["bookmarked"] != false {
			t.Error("expected bookmarked false")
		}
		if ok, _ := repo.IsBookmarked(7, "100"); ok {
			t.Error("expected bookmark removed")
		}
	})

	t.Run("returns 404 for missing bookmark", func(t *testing.T) {
		h := NewBookmarkHandler(newFakeBookmarkRepo(), &fakeTourClient{})

		c, _ := newBookmarkContext(t, "100")
		asUser(c, 7)
		err := h.RemoveBookmark(c)
		if he := httpError(t, err); he.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", he.Code)
		}
	})
}

func TestListBookmarks(t *testing.T) {
	t.Run("enriches bookmarks and skips failed fetches", func(t *testing.T) {
		repo := newFakeBookmarkRepo()
		_ = repo.AddBookmark(&models.Bookmark{UserID: 7, ContentID: "100"})
		_ = repo.AddBookmark(&models.Bookmark{UserID: 7, ContentID: "200"})
		client := &fakeTourClient{
			detailCommon: func(ctx context.Context, contentID string) (*models.TourDetail, error) {
				if contentID == "200" {
					return nil, fmt.Errorf("detailCommon1: unexpected status 500")
				}
				return &models.TourDetail{ContentID: contentID, Title: "Palace"}, nil
			},
		}
		h := NewBookmarkHandler(repo, client)

		c, rec := newTestContext(t, "/api/v1/bookmarks")
		asUser(c, 7)
		if err := h.ListBookmarks(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		resp := decodeResponse(t, rec)
		bookmarks := resp["data"].(map[string]interface{})["bookmarks"].([]interface{})
		if len(bookmarks) != 2 {
			t.Fatalf("expected 2 bookmarks, got %d", len(bookmarks))
		}

		byContent := make(map[string]map[string]interface{})
		for _, b := range bookmarks {
			entry := b.(map[string]interface{})
			byContent[entry["content_id"].(string)] = entry
		}
		if byContent["100"]["tour"] == nil {
			t.Error("expected enriched detail for bookmark 100")
		}
		if byContent["200"]["detail_unavailable"] != true {
			t.Error("expected detail_unavailable for bookmark 200")
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		h := NewBookmarkHandler(newFakeBookmarkRepo(), &fakeTourClient{})

		c, _ := newTestContext(t, "/api/v1/bookmarks")
		err := h.ListBookmarks(c)
		if he := httpError(t, err); he.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", he.Code)
		}
	})
}

func TestSyncBookmarks(t *testing.T) {
	newSyncContext := func(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
		t.Helper()
		e := echo.New()
		e.Validator = validators.NewValidator()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookmarks/sync", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	t.Run("merges local bookmarks ignoring duplicates", func(t *testing.T) {
		repo := newFakeBookmarkRepo()
		_ = repo.AddBookmark(&models.Bookmark{UserID: 7, ContentID: "100"})
		h := NewBookmarkHandler(repo, &fakeTourClient{})

		c, rec := newSyncContext(t, `{"device_id":"0a3c9e4e-0b4e-4c9a-b6d8-52cf1a2f9d4b","content_ids":["100","200","300"]}`)
		asUser(c, 7)
		if err := h.SyncBookmarks(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		resp := decodeResponse(t, rec)
		if resp["meta"].(map[string]interface{})["totalItems"].(float64) != 3 {
			t.Errorf("expected 3 merged bookmarks, got %v", resp["meta"])
		}
		for _, id := range []string{"100", "200", "300"} {
			if ok, _ := repo.IsBookmarked(7, id); !ok {
				t.Errorf("expected %s bookmarked after sync", id)
			}
		}
	})

	t.Run("accepts an empty local list and returns the server set", func(t *testing.T) {
		repo := newFakeBookmarkRepo()
		_ = repo.AddBookmark(&models.Bookmark{UserID: 7, ContentID: "100"})
		h := NewBookmarkHandler(repo, &fakeTourClient{})

		c, rec := newSyncContext(t, `{"device_id":"0a3c9e4e-0b4e-4c9a-b6d8-52cf1a2f9d4b","content_ids":[]}`)
		asUser(c, 7)
		if err := h.SyncBookmarks(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		resp := decodeResponse(t, rec)
		if resp["meta"].(map[string]interface{})["totalItems"].(float64) != 1 {
			t.Errorf("expected the existing bookmark back, got %v", resp["meta"])
		}
	})

	t.Run("rejects invalid device id", func(t *testing.T) {
		h := NewBookmarkHandler(newFakeBookmarkRepo(), &fakeTourClient{})

		c, _ := newSyncContext(t, `{"device_id":"not-a-uuid","content_ids":["100"]}`)
		asUser(c, 7)
		err := h.SyncBookmarks(c)
		if he := httpError(t, err); he.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", he.Code)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		h := NewBookmarkHandler(newFakeBookmarkRepo(), &fakeTourClient{})

		c, _ := newSyncContext(t, `{"device_id":"0a3c9e4e-0b4e-4c9a-b6d8-52cf1a2f9d4b","content_ids":["100"]}`)
		err := h.SyncBookmarks(c)
		if he := httpError(t, err); he.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", he.Code)
		}
	})
}
