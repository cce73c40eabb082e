package models

import "time"

// TourSummary is a single attraction in a list/search response. Fields mirror
// the tourism API's JSON; everything beyond ContentID may be absent.
type TourSummary struct {
	ContentID     string `json:"content_id"`
	ContentTypeID string `json:"content_type_id,omitempty"`
	Title         string `json:"title"`
	Address       string `json:"address,omitempty"`
	AreaCode      string `json:"area_code,omitempty"`
	SigunguCode   string `json:"sigungu_code,omitempty"`
	FirstImage    string `json:"first_image,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Tel           string `json:"tel,omitempty"`
	MapX          string `json:"map_x,omitempty"`
	MapY          string `json:"map_y,omitempty"`
	ModifiedTime  string `json:"modified_time,omitempty"`
}

// TourDetail is the common-info block of a detail page.
type TourDetail struct {
	ContentID     string       `json:"content_id"`
	ContentTypeID string       `json:"content_type_id,omitempty"`
	Title         string       `json:"title"`
	Overview      string       `json:"overview,omitempty"`
	Address       string       `json:"address,omitempty"`
	AddressDetail string       `json:"address_detail,omitempty"`
	ZipCode       string       `json:"zip_code,omitempty"`
	Tel           string       `json:"tel,omitempty"`
	Homepage      string       `json:"homepage,omitempty"`
	FirstImage    string       `json:"first_image,omitempty"`
	MapX          string       `json:"map_x,omitempty"`
	MapY          string       `json:"map_y,omitempty"`
	Position      *MapPosition `json:"position,omitempty"`
}

// MapPosition is the decoded map coordinate in decimal degrees.
type MapPosition struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// TourIntro is the type-specific introduction block (hours, fees, parking...).
type TourIntro struct {
	ContentID  string `json:"content_id"`
	InfoCenter string `json:"info_center,omitempty"`
	RestDate   string `json:"rest_date,omitempty"`
	UseTime    string `json:"use_time,omitempty"`
	UseFee     string `json:"use_fee,omitempty"`
	Parking    string `json:"parking,omitempty"`
}

// TourImage is one gallery entry of a detail page.
type TourImage struct {
	ContentID     string `json:"content_id"`
	OriginImgURL  string `json:"origin_img_url"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	ImgName       string `json:"img_name,omitempty"`
	SerialNum     string `json:"serial_num,omitempty"`
}

// TourPage is one page of list/search results plus the upstream total count.
type TourPage struct {
	Items      []TourSummary `json:"items"`
	TotalCount int           `json:"total_count"`
}

// AreaCode is a region entry of the tourism API (province/city level).
type AreaCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CachedTourPage is the Mongo document holding the last successful list
// response for a query signature. Served as the fallback when the upstream
// API is down.
type CachedTourPage struct {
	QueryKey  string    `bson:"query_key" json:"query_key"`
	Page      TourPage  `bson:"page" json:"page"`
	FetchedAt time.Time `bson:"fetched_at" json:"fetched_at"`
}

// CachedTourDetail holds the last successful detail fan-out for a contentId.
type CachedTourDetail struct {
	ContentID string      `bson:"content_id" json:"content_id"`
	Detail    *TourDetail `bson:"detail,omitempty" json:"detail,omitempty"`
	Intro     *TourIntro  `bson:"intro,omitempty" json:"intro,omitempty"`
	Images    []TourImage `bson:"images,omitempty" json:"images,omitempty"`
	FetchedAt time.Time   `bson:"fetched_at" json:"fetched_at"`
}
