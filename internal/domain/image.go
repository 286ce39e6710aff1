package domain

import "net/url"

// ImageSource tags which fallback stage produced an image reference
type ImageSource string

const (
	ImageSourceCurated     ImageSource = "Curated"
	ImageSourceFetched     ImageSource = "Fetched"
	ImageSourceScraped     ImageSource = "Scraped"
	ImageSourcePlaceholder ImageSource = "Placeholder"
)

// ImageReference is the result of resolving an image for a food name.
// Fetched references carry the downloaded payload; the rest carry a URI only.
type ImageReference struct {
	Source      ImageSource `json:"source"`
	URI         string      `json:"uri"`
	Data        []byte      `json:"data,omitempty"`
	ContentType string      `json:"contentType,omitempty"`
}

// IsPlaceholder reports whether every real source was exhausted
func (r ImageReference) IsPlaceholder() bool {
	return r.Source == ImageSourcePlaceholder
}

// FetchedImage is a successfully downloaded image payload
type FetchedImage struct {
	URI         string
	ContentType string
	Data        []byte
}

// PageSummary describes an inspected web page
type PageSummary struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	ImageCount int    `json:"imageCount"`
}

// IsAbsoluteURI reports whether s is a well-formed absolute http(s) URI with a host
func IsAbsoluteURI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
