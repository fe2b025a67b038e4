package menu

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors the provider's menu markup is known to use. The markup is not a
// stable contract, so parsing keys on data attributes rather than classes.
const (
	menuRegionSelector = "#weekly-menu"
	recipeCardSelector = "[data-recipe-id]"
	titleSelector      = "[data-test-id='product-name']"
	subtitleSelector   = "[data-test-id='product-headline-screen-reader-text']"
)

// freeMarkers are the badge texts that mark a complimentary item.
var freeMarkers = []string{"Offert", "Offerte", "Gratuit", "Free"}

// Item is one recipe card on the weekly menu page. Complimentary items are
// extras the provider adds for free; they are not part of the ordered menu
// and callers drop them before matching.
type Item struct {
	Title         string
	Complimentary bool
}

// ParseWeeklyMenu extracts recipe items from the weekly-menu region's HTML.
// Cards without a primary title are skipped; the screen-reader subtitle, when
// present, is appended to the title with a single space.
func ParseWeeklyMenu(html string) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu html: %w", err)
	}

	var items []Item
	doc.Find(recipeCardSelector).Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(titleSelector).First().Text())
		if title == "" {
			return
		}
		if subtitle := strings.TrimSpace(card.Find(subtitleSelector).First().Text()); subtitle != "" {
			title = title + " " + subtitle
		}
		items = append(items, Item{
			Title:         title,
			Complimentary: isComplimentary(card),
		})
	})

	return items, nil
}

func isComplimentary(card *goquery.Selection) bool {
	free := false
	card.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		for _, marker := range freeMarkers {
			if strings.EqualFold(text, marker) {
				free = true
				return false
			}
		}
		return true
	})
	return free
}
