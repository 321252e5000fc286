package model

import (
	"fmt"
	"sort"
)

// AllSizes is the size filter key that disables size filtering.
const AllSizes = "__ALL__"

// UnknownService is the group name for images collected without a service.
const UnknownService = "Unknown"

// Library holds the user's collected images across capture sessions.
type Library struct {
	Images []ImageItem `json:"images"`
}

// NewLibrary returns an empty library.
func NewLibrary() Library {
	return Library{Images: []ImageItem{}}
}

// IsDuplicate reports whether two records describe the same image. Records
// match on ID when both carry one, otherwise on source URL.
func IsDuplicate(a, b ImageItem) bool {
	if a.ID != "" && b.ID != "" && a.ID == b.ID {
		return true
	}
	if a.Source != "" && b.Source != "" && a.Source == b.Source {
		return true
	}
	return false
}

// Merge appends images not already in the library, including duplicates
// within the incoming batch itself. Returns the number added.
func (l *Library) Merge(images []ImageItem) int {
	added := 0
	for _, img := range images {
		dup := false
		for _, existing := range l.Images {
			if IsDuplicate(existing, img) {
				dup = true
				break
			}
		}
		if !dup {
			l.Images = append(l.Images, img)
			added++
		}
	}
	return added
}

// Find returns the image with the given ID.
func (l Library) Find(id string) (ImageItem, bool) {
	for _, img := range l.Images {
		if img.ID == id {
			return img, true
		}
	}
	return ImageItem{}, false
}

// SizeKey formats dimensions the way the size filter lists them, e.g. "319×240".
func SizeKey(w, h float64) string {
	return fmt.Sprintf("%.0f×%.0f", w, h)
}

// AvailableSizes returns the distinct image sizes, sorted by width then height.
// Images without a positive size are skipped.
func (l Library) AvailableSizes() []string {
	type size struct{ w, h float64 }
	seen := make(map[size]bool)
	var sizes []size
	for _, img := range l.Images {
		if !img.Valid() {
			continue
		}
		s := size{img.Width, img.Height}
		if !seen[s] {
			seen[s] = true
			sizes = append(sizes, s)
		}
	}
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].w != sizes[j].w {
			return sizes[i].w < sizes[j].w
		}
		return sizes[i].h < sizes[j].h
	})
	keys := make([]string, len(sizes))
	for i, s := range sizes {
		keys[i] = SizeKey(s.w, s.h)
	}
	return keys
}

// FilterBySizes returns the images whose size key is in the filter set.
// A set containing AllSizes, or an empty set, returns every image.
func (l Library) FilterBySizes(filter map[string]bool) []ImageItem {
	if len(filter) == 0 || filter[AllSizes] {
		return l.Images
	}
	var out []ImageItem
	for _, img := range l.Images {
		if !img.Valid() {
			continue
		}
		if filter[SizeKey(img.Width, img.Height)] {
			out = append(out, img)
		}
	}
	return out
}

// ServiceName returns the service an image belongs to for grouping.
func ServiceName(img ImageItem) string {
	if img.Service == "" {
		return UnknownService
	}
	return img.Service
}

// ServiceGroup is the number of images collected from one service.
type ServiceGroup struct {
	Name  string
	Count int
}

// Services groups the library by service, in order of first appearance.
func (l Library) Services() []ServiceGroup {
	index := make(map[string]int)
	var groups []ServiceGroup
	for _, img := range l.Images {
		name := ServiceName(img)
		if i, ok := index[name]; ok {
			groups[i].Count++
			continue
		}
		index[name] = len(groups)
		groups = append(groups, ServiceGroup{Name: name, Count: 1})
	}
	return groups
}

// RemoveService deletes every image from the named service and returns how
// many were removed. Pass UnknownService to drop images without a service.
func (l *Library) RemoveService(name string) int {
	kept := l.Images[:0]
	removed := 0
	for _, img := range l.Images {
		if ServiceName(img) == name {
			removed++
			continue
		}
		kept = append(kept, img)
	}
	l.Images = kept
	return removed
}
