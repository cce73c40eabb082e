package tourapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sunginkim/tourgo/backend/internal/models"
)

const resultCodeOK = "0000"

// TourClient defines the operations handlers need from the tourism API.
type TourClient interface {
	AreaBasedList(ctx context.Context, p ListParams) (*models.TourPage, error)
	SearchKeyword(ctx context.Context, keyword string, p ListParams) (*models.TourPage, error)
	DetailCommon(ctx context.Context, contentID string) (*models.TourDetail, error)
	DetailIntro(ctx context.Context, contentID, contentTypeID string) (*models.TourIntro, error)
	DetailImages(ctx context.Context, contentID string) ([]models.TourImage, error)
	AreaCodes(ctx context.Context) ([]models.AreaCode, error)
}

// ListParams are the shared paging/filter parameters of the list operations.
type ListParams struct {
	AreaCode      string
	ContentTypeID string
	Page          int
	Rows          int
}

// Client calls the government tourism API (KorService). The service key is
// injected server-side and masked in every error and log line.
type Client struct {
	baseURL    string
	serviceKey string
	appName    string
	httpClient *http.Client
}

// NewClient creates a tourism API client.
func NewClient(baseURL, serviceKey, appName string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		appName:    appName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ErrUpstream marks failures reported by the API itself (non-0000 resultCode).
var ErrUpstream = errors.New("tourism api error")

// AreaBasedList fetches one page of attractions filtered by area and content
// type.
func (c *Client) AreaBasedList(ctx context.Context, p ListParams) (*models.TourPage, error) {
	params := url.Values{}
	if p.AreaCode != "" {
		params.Set("areaCode", p.AreaCode)
	}
	if p.ContentTypeID != "" {
		params.Set("contentTypeId", p.ContentTypeID)
	}
	setPaging(params, p)

	return c.fetchPage(ctx, "areaBasedList1", params)
}

// SearchKeyword fetches one page of attractions matching a keyword.
func (c *Client) SearchKeyword(ctx context.Context, keyword string, p ListParams) (*models.TourPage, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	if p.AreaCode != "" {
		params.Set("areaCode", p.AreaCode)
	}
	if p.ContentTypeID != "" {
		params.Set("contentTypeId", p.ContentTypeID)
	}
	setPaging(params, p)

	return c.fetchPage(ctx, "searchKeyword1", params)
}

// DetailCommon fetches the common-info block of an attraction.
func (c *Client) DetailCommon(ctx context.Context, contentID string) (*models.TourDetail, error) {
	params := url.Values{}
	params.Set("contentId", contentID)
	params.Set("defaultYN", "Y")
	params.Set("overviewYN", "Y")
	params.Set("addrinfoYN", "Y")
	params.Set("mapinfoYN", "Y")
	params.Set("firstImageYN", "Y")

	items, _, err := c.fetchItems(ctx, "detailCommon1", params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("detailCommon1: contentId %s: %w: not found", contentID, ErrUpstream)
	}
	detail := items[0].toDetail()
	return &detail, nil
}

// DetailIntro fetches the type-specific introduction block.
func (c *Client) DetailIntro(ctx context.Context, contentID, contentTypeID string) (*models.TourIntro, error) {
	params := url.Values{}
	params.Set("contentId", contentID)
	params.Set("contentTypeId", contentTypeID)

	items, _, err := c.fetchItems(ctx, "detailIntro1", params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("detailIntro1: contentId %s: %w: not found", contentID, ErrUpstream)
	}
	intro := items[0].toIntro()
	return &intro, nil
}

// DetailImages fetches the image gallery of an attraction. An empty gallery
// is not an error.
func (c *Client) DetailImages(ctx context.Context, contentID string) ([]models.TourImage, error) {
	params := url.Values{}
	params.Set("contentId", contentID)
	params.Set("imageYN", "Y")
	params.Set("subImageYN", "Y")

	items, _, err := c.fetchItems(ctx, "detailImage1", params)
	if err != nil {
		return nil, err
	}
	images := make([]models.TourImage, 0, len(items))
	for _, it := range items {
		images = append(images, it.toImage())
	}
	return images, nil
}

// AreaCodes fetches the top-level region code list.
func (c *Client) AreaCodes(ctx context.Context) ([]models.AreaCode, error) {
	params := url.Values{}
	params.Set("numOfRows", "50")

	items, _, err := c.fetchItems(ctx, "areaCode1", params)
	if err != nil {
		return nil, err
	}
	codes := make([]models.AreaCode, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.toAreaCode())
	}
	return codes, nil
}

func setPaging(params url.Values, p ListParams) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Rows < 1 {
		p.Rows = 12
	}
	params.Set("pageNo", strconv.Itoa(p.Page))
	params.Set("numOfRows", strconv.Itoa(p.Rows))
}

func (c *Client) fetchPage(ctx context.Context, op string, params url.Values) (*models.TourPage, error) {
	items, total, err := c.fetchItems(ctx, op, params)
	if err != nil {
		return nil, err
	}
	page := &models.TourPage{
		Items:      make([]models.TourSummary, 0, len(items)),
		TotalCount: total,
	}
	for _, it := range items {
		page.Items = append(page.Items, it.toSummary())
	}
	return page, nil
}

func (c *Client) fetchItems(ctx context.Context, op string, params url.Values) ([]wireItem, int, error) {
	params.Set("serviceKey", c.serviceKey)
	params.Set("MobileOS", "ETC")
	params.Set("MobileApp", c.appName)
	params.Set("_type", "json")

	reqURL := c.baseURL + "/" + op + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL including the service key; report
		// only the underlying cause.
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, 0, fmt.Errorf("%s: request failed: %v", op, ue.Err)
		}
		return nil, 0, fmt.Errorf("%s: request failed: %v", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: read response: %w", op, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Service-level failures (quota, bad key) come back as XML even when
		// _type=json was requested.
		return nil, 0, fmt.Errorf("%s: decode response: %w", op, err)
	}

	if env.Response.Header.ResultCode != resultCodeOK {
		return nil, 0, fmt.Errorf("%s: %w: %s (%s)", op, ErrUpstream,
			env.Response.Header.ResultMsg, env.Response.Header.ResultCode)
	}

	items, err := decodeItems(env.Response.Body.Items)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, int(env.Response.Body.TotalCount), nil
}
