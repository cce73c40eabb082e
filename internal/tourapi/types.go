package tourapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sunginkim/tourgo/backend/internal/models"
)

// envelope mirrors the API's response wrapper:
// {"response":{"header":{...},"body":{...}}}
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			NumOfRows  flexInt         `json:"numOfRows"`
			PageNo     flexInt         `json:"pageNo"`
			TotalCount flexInt         `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// flexInt tolerates the API emitting counts as either numbers or strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("numeric field %q: %w", s, err)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// flexString tolerates the API emitting item fields as either strings or
// bare numbers (contentid, mapx and the various codes switch between the two).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	// A bare numeric token; keep its exact text.
	*f = flexString(data)
	return nil
}

// wireItem is the union of item fields across all operations we call. The API
// sends only the subset relevant to each operation.
type wireItem struct {
	ContentID     flexString `json:"contentid"`
	ContentTypeID flexString `json:"contenttypeid"`
	Title         flexString `json:"title"`
	Addr1         flexString `json:"addr1"`
	Addr2         flexString `json:"addr2"`
	ZipCode       flexString `json:"zipcode"`
	AreaCode      flexString `json:"areacode"`
	SigunguCode   flexString `json:"sigungucode"`
	FirstImage    flexString `json:"firstimage"`
	FirstImage2   flexString `json:"firstimage2"`
	Tel           flexString `json:"tel"`
	Homepage      flexString `json:"homepage"`
	Overview      flexString `json:"overview"`
	MapX          flexString `json:"mapx"`
	MapY          flexString `json:"mapy"`
	ModifiedTime  flexString `json:"modifiedtime"`

	// detailIntro
	InfoCenter flexString `json:"infocenter"`
	RestDate   flexString `json:"restdate"`
	UseTime    flexString `json:"usetime"`
	UseFee     flexString `json:"usefee"`
	Parking    flexString `json:"parking"`

	// detailImage
	OriginImgURL  flexString `json:"originimgurl"`
	SmallImageURL flexString `json:"smallimageurl"`
	ImgName       flexString `json:"imgname"`
	SerialNum     flexString `json:"serialnum"`

	// areaCode
	Code flexString `json:"code"`
	Name flexString `json:"name"`
}

// decodeItems unpacks body.items into wire items. The API encodes "no result"
// as an empty string instead of an object, and a single result as a bare
// object instead of a one-element array; both shapes are normalized here.
func decodeItems(raw json.RawMessage) ([]wireItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte(`""`)) || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("decode items wrapper: %w", err)
	}

	item := bytes.TrimSpace(wrapper.Item)
	if len(item) == 0 || bytes.Equal(item, []byte(`""`)) || bytes.Equal(item, []byte("null")) {
		return nil, nil
	}
	if item[0] == '{' {
		item = append(append([]byte{'['}, item...), ']')
	}

	var items []wireItem
	if err := json.Unmarshal(item, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func (w wireItem) toSummary() models.TourSummary {
	return models.TourSummary{
		ContentID:     string(w.ContentID),
		ContentTypeID: string(w.ContentTypeID),
		Title:         string(w.Title),
		Address:       string(w.Addr1),
		AreaCode:      string(w.AreaCode),
		SigunguCode:   string(w.SigunguCode),
		FirstImage:    string(w.FirstImage),
		Thumbnail:     string(w.FirstImage2),
		Tel:           string(w.Tel),
		MapX:          string(w.MapX),
		MapY:          string(w.MapY),
		ModifiedTime:  string(w.ModifiedTime),
	}
}

func (w wireItem) toDetail() models.TourDetail {
	return models.TourDetail{
		ContentID:     string(w.ContentID),
		ContentTypeID: string(w.ContentTypeID),
		Title:         string(w.Title),
		Overview:      string(w.Overview),
		Address:       string(w.Addr1),
		AddressDetail: string(w.Addr2),
		ZipCode:       string(w.ZipCode),
		Tel:           string(w.Tel),
		Homepage:      string(w.Homepage),
		FirstImage:    string(w.FirstImage),
		MapX:          string(w.MapX),
		MapY:          string(w.MapY),
	}
}

func (w wireItem) toIntro() models.TourIntro {
	return models.TourIntro{
		ContentID:  string(w.ContentID),
		InfoCenter: string(w.InfoCenter),
		RestDate:   string(w.RestDate),
		UseTime:    string(w.UseTime),
		UseFee:     string(w.UseFee),
		Parking:    string(w.Parking),
	}
}

func (w wireItem) toImage() models.TourImage {
	return models.TourImage{
		ContentID:     string(w.ContentID),
		OriginImgURL:  string(w.OriginImgURL),
		SmallImageURL: string(w.SmallImageURL),
		ImgName:       string(w.ImgName),
		SerialNum:     string(w.SerialNum),
	}
}

func (w wireItem) toAreaCode() models.AreaCode {
	return models.AreaCode{Code: string(w.Code), Name: string(w.Name)}
}
