package imagesearch

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nutriview/backend/internal/domain"
)

// Page is what ScanPage pulls out of an HTML document
type Page struct {
	Title  string
	Images []string
}

// imageAttrs are the attributes that carry an image reference on <img>
var imageAttrs = map[string]bool{
	"src":      true,
	"data-src": true,
}

// ScanPage tokenizes an HTML document and collects the first <title> text and
// every absolute image URI referenced from <img> tags. Duplicates are dropped;
// document order is kept.
func ScanPage(r io.Reader) (*Page, error) {
	z := html.NewTokenizer(r)
	page := &Page{}
	seen := make(map[string]bool)
	inTitle := false
	titleDone := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				page.Title = strings.Join(strings.Fields(page.Title), " ")
				return page, nil
			}
			return nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title:
				inTitle = !titleDone
			case atom.Img:
				for _, a := range tok.Attr {
					if !imageAttrs[a.Key] {
						continue
					}
					v := strings.TrimSpace(a.Val)
					if domain.IsAbsoluteURI(v) && !seen[v] {
						seen[v] = true
						page.Images = append(page.Images, v)
					}
				}
			}

		case html.TextToken:
			if inTitle {
				page.Title += string(z.Text())
			}

		case html.EndTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Title && inTitle {
				inTitle = false
				titleDone = true
			}
		}
	}
}
