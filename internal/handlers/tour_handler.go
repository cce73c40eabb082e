package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/sunginkim/tourgo/backend/internal/geo"
	"github.com/sunginkim/tourgo/backend/internal/models"
	"github.com/sunginkim/tourgo/backend/internal/repositories"
	"github.com/sunginkim/tourgo/backend/internal/tourapi"
)

// TourHandler handles attraction browsing HTTP requests
type TourHandler struct {
	tourClient         tourapi.TourClient
	tourCache          repositories.TourCacheRepository
	bookmarkRepository repositories.BookmarkRepository
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(
	tourClient tourapi.TourClient,
	tourCache repositories.TourCacheRepository,
	bookmarkRepo repositories.BookmarkRepository,
) *TourHandler {
	return &TourHandler{
		tourClient:         tourClient,
		tourCache:          tourCache,
		bookmarkRepository: bookmarkRepo,
	}
}

// RegisterTourRoutes registers attraction browsing routes
func (h *TourHandler) RegisterTourRoutes(g *echo.Group) {
	g.GET("/tours", h.ListTours)
	g.GET("/tours/:contentId", h.GetTourDetail)
}

// EnrichedTour is a list item with the current user's bookmark flag
type EnrichedTour struct {
	models.TourSummary
	IsBookmarked bool `json:"is_bookmarked"`
}

// ListTours returns one page of attractions, filtered by area/content type or
// searched by keyword, sorted and enriched with per-user bookmark flags.
func (h *TourHandler) ListTours(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword != "" && utf8.RuneCountInString(keyword) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "Search keyword must be at least 2 characters")
	}

	arrange := c.QueryParam("arrange")
	if arrange != "" && arrange != "title" && arrange != "newest" {
		return echo.NewHTTPError(http.StatusBadRequest, "arrange must be 'title' or 'newest'")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}

	params := tourapi.ListParams{
		AreaCode:      c.QueryParam("areaCode"),
		ContentTypeID: c.QueryParam("contentTypeId"),
		Page:          page,
		Rows:          limit,
	}
	queryKey := tourQueryKey(keyword, params)

	cached := false
	var result *models.TourPage
	var err error
	if keyword != "" {
		result, err = h.tourClient.SearchKeyword(c.Request().Context(), keyword, params)
	} else {
		result, err = h.tourClient.AreaBasedList(c.Request().Context(), params)
	}
	if err != nil {
		log.Printf("Tour list fetch failed, trying cache: %v", err)
		cachedPage, cacheErr := h.tourCache.GetPage(c.Request().Context(), queryKey)
		if cacheErr != nil {
			return echo.NewHTTPError(http.StatusBadGateway, "Tourism API is unavailable")
		}
		result = &cachedPage.Page
		cached = true
	} else if saveErr := h.tourCache.SavePage(c.Request().Context(), queryKey, result); saveErr != nil {
		log.Printf("Failed to cache tour page: %v", saveErr)
	}

	sortTours(result.Items, arrange)

	// Check bookmark status for the current user
	bookmarkedMap := make(map[string]bool)
	if currentUserID := getUserIDFromContext(c); currentUserID > 0 {
		contentIDs := make([]string, len(result.Items))
		for i, item := range result.Items {
			contentIDs[i] = item.ContentID
		}
		bookmarkedMap, err = h.bookmarkRepository.GetBookmarkedIDs(currentUserID, contentIDs)
		if err != nil {
			log.Printf("Failed to load bookmark flags: %v", err)
			bookmarkedMap = make(map[string]bool)
		}
	}

	enriched := make([]EnrichedTour, len(result.Items))
	for i, item := range result.Items {
		enriched[i] = EnrichedTour{
			TourSummary:  item,
			IsBookmarked: bookmarkedMap[item.ContentID],
		}
	}

	totalPages := int(math.Ceil(float64(result.TotalCount) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"tours": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      result.TotalCount,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
			"cached":          cached,
		},
	})
}

// PartialError reports one failed sub-resource of a detail page
type PartialError struct {
	Part  string `json:"part"`
	Error string `json:"error"`
}

// GetTourDetail assembles the detail page: common info, introduction and
// image gallery are fetched concurrently, and whatever fails is reported
// individually while the rest still renders.
func (h *TourHandler) GetTourDetail(c echo.Context) error {
	contentID := c.Param("contentId")
	contentTypeID := c.QueryParam("contentTypeId")
	ctx := c.Request().Context()

	var (
		detail    *models.TourDetail
		detailErr error
		intro     *models.TourIntro
		introErr  error
		images    []models.TourImage
		imagesErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detailErr = h.tourClient.DetailCommon(ctx, contentID)
	}()
	go func() {
		defer wg.Done()
		images, imagesErr = h.tourClient.DetailImages(ctx, contentID)
	}()

	if contentTypeID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			intro, introErr = h.tourClient.DetailIntro(ctx, contentID, contentTypeID)
		}()
		wg.Wait()
	} else {
		// The intro operation needs the content type, which only the common
		// block carries when the caller did not pass it along.
		wg.Wait()
		if detailErr == nil && detail.ContentTypeID != "" {
			intro, introErr = h.tourClient.DetailIntro(ctx, contentID, detail.ContentTypeID)
		} else {
			introErr = fmt.Errorf("skipped: common detail unavailable")
		}
	}

	if detailErr != nil && introErr != nil && imagesErr != nil {
		log.Printf("Tour detail fetch failed for %s, trying cache: %v", contentID, detailErr)
		cachedDetail, cacheErr := h.tourCache.GetDetail(ctx, contentID)
		if cacheErr != nil {
			return echo.NewHTTPError(http.StatusBadGateway, "Tourism API is unavailable")
		}
		return h.respondDetail(c, cachedDetail.Detail, cachedDetail.Intro, cachedDetail.Images, nil, true)
	}

	if detail != nil {
		resolvePosition(detail)
	}

	partialErrors := make([]PartialError, 0, 3)
	if detailErr != nil {
		partialErrors = append(partialErrors, PartialError{Part: "detail", Error: detailErr.Error()})
	}
	if introErr != nil {
		partialErrors = append(partialErrors, PartialError{Part: "intro", Error: introErr.Error()})
	}
	if imagesErr != nil {
		partialErrors = append(partialErrors, PartialError{Part: "images", Error: imagesErr.Error()})
	}

	if detailErr == nil {
		cachedDetail := &models.CachedTourDetail{
			ContentID: contentID,
			Detail:    detail,
			Intro:     intro,
			Images:    images,
		}
		if saveErr := h.tourCache.SaveDetail(ctx, cachedDetail); saveErr != nil {
			log.Printf("Failed to cache tour detail %s: %v", contentID, saveErr)
		}
	}

	return h.respondDetail(c, detail, intro, images, partialErrors, false)
}

func (h *TourHandler) respondDetail(c echo.Context, detail *models.TourDetail, intro *models.TourIntro, images []models.TourImage, partialErrors []PartialError, cached bool) error {
	isBookmarked := false
	if currentUserID := getUserIDFromContext(c); currentUserID > 0 && detail != nil {
		saved, err := h.bookmarkRepository.IsBookmarked(currentUserID, detail.ContentID)
		if err != nil {
			log.Printf("Failed to load bookmark flag: %v", err)
		} else {
			isBookmarked = saved
		}
	}

	if images == nil {
		images = []models.TourImage{}
	}
	if partialErrors == nil {
		partialErrors = []PartialError{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"detail":        detail,
			"intro":         intro,
			"images":        images,
			"is_bookmarked": isBookmarked,
		},
		"meta": echo.Map{
			"cached":         cached,
			"partial_errors": partialErrors,
		},
	})
}

// resolvePosition decodes the raw map coordinates; bad upstream coordinates
// drop the map block instead of failing the page.
func resolvePosition(detail *models.TourDetail) {
	if detail.MapX == "" || detail.MapY == "" {
		return
	}
	lon, lat, err := geo.FromKATECString(detail.MapX, detail.MapY)
	if err != nil {
		log.Printf("Dropping map position for %s: %v", detail.ContentID, err)
		return
	}
	detail.Position = &models.MapPosition{Longitude: lon, Latitude: lat}
}

func sortTours(items []models.TourSummary, arrange string) {
	switch arrange {
	case "title":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Title < items[j].Title
		})
	case "newest":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ModifiedTime > items[j].ModifiedTime
		})
	}
}

func tourQueryKey(keyword string, p tourapi.ListParams) string {
	if keyword != "" {
		return fmt.Sprintf("search|kw=%s|area=%s|type=%s|page=%d|rows=%d",
			keyword, p.AreaCode, p.ContentTypeID, p.Page, p.Rows)
	}
	return fmt.Sprintf("list|area=%s|type=%s|page=%d|rows=%d",
		p.AreaCode, p.ContentTypeID, p.Page, p.Rows)
}
