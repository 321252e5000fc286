package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/framefill/internal/model"
)

// DefaultImageSize is used for records that carry no dimensions.
const DefaultImageSize = 200.0

// imageRecord is one entry of a JSON image list. Sizes are pointers so a
// missing field can be told apart from an explicit zero.
type imageRecord struct {
	ID      string   `json:"id"`
	Src     string   `json:"src"`
	URL     string   `json:"url"`
	Alt     string   `json:"alt"`
	Service string   `json:"service"`
	Base64  string   `json:"base64"`
	Width   *float64 `json:"width"`
	W       *float64 `json:"w"`
	Height  *float64 `json:"height"`
	H       *float64 `json:"h"`
}

// imageList is the wrapped form {"images": [...]}.
type imageList struct {
	Images []imageRecord `json:"images"`
}

// ImportJSON imports image records from a JSON file.
func ImportJSON(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()
	return ImportJSONFromReader(f)
}

// ImportJSONFromReader imports image records from either a bare JSON array
// or an object with an "images" array.
func ImportJSONFromReader(r io.Reader) ImportResult {
	result := ImportResult{}

	data, err := io.ReadAll(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read JSON: %v", err))
		return result
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	var records []imageRecord
	if data[0] == '{' {
		var list imageList
		if err := json.Unmarshal(data, &list); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse JSON: %v", err))
			return result
		}
		records = list.Images
	} else if err := json.Unmarshal(data, &records); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse JSON: %v", err))
		return result
	}

	for i, rec := range records {
		label := fmt.Sprintf("Record %d", i+1)
		img, warning, errMsg := rec.toImage(label)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Images = append(result.Images, img)
	}
	return result
}

// toImage converts a record, applying the w/h aliases and default size.
func (rec imageRecord) toImage(label string) (model.ImageItem, string, string) {
	src := rec.Src
	if src == "" {
		src = rec.URL
	}
	if src == "" && rec.Base64 == "" {
		return model.ImageItem{}, "", fmt.Sprintf("%s: Missing image source", label)
	}

	width, wOK := sizeOrDefault(rec.W, rec.Width)
	height, hOK := sizeOrDefault(rec.H, rec.Height)
	if width < 0 || height < 0 {
		return model.ImageItem{}, "", fmt.Sprintf("%s: Width and height must not be negative", label)
	}
	var warning string
	if !wOK || !hOK {
		warning = fmt.Sprintf("%s: Missing size, using %.0f×%.0f", label, width, height)
	}

	img := model.NewImageItem(src, width, height)
	if rec.ID != "" {
		img.ID = rec.ID
	}
	img.Alt = rec.Alt
	img.Service = rec.Service
	if rec.Base64 != "" {
		img.Content = model.ContentHandle(rec.Base64)
	}
	return img, warning, ""
}

// sizeOrDefault returns the first set, non-zero value, the short alias
// first. A side that is missing or zero falls back to DefaultImageSize on its
// own; ok reports whether a value was given.
func sizeOrDefault(values ...*float64) (float64, bool) {
	for _, v := range values {
		if v != nil && *v != 0 {
			return *v, true
		}
	}
	return DefaultImageSize, false
}
