package extract

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/scrape/util"
)

const MaxCards = 20

// Chain is an ordered list of CSS selectors. The first one that matches wins.
type Chain []string

// Validate reports the first selector in the chain that does not compile.
func (c Chain) Validate() error {
	for _, sel := range c {
		if strings.TrimSpace(sel) == "" {
			return fmt.Errorf("empty selector")
		}
		if _, err := cascadia.Compile(sel); err != nil {
			return fmt.Errorf("selector %q: %w", sel, err)
		}
	}
	return nil
}

type FieldChains struct {
	Title       Chain
	Company     Chain
	Location    Chain
	Description Chain
	Link        Chain
}

// Spec is everything Extract needs to know about one site's markup.
type Spec struct {
	Name     string
	BaseURL  string
	Cards    Chain
	Fields   FieldChains
	MaxCards int

	// TitleAttr is read before the title text when set. LinkAttr defaults
	// to href.
	TitleAttr string
	LinkAttr  string
}

func (s Spec) maxCards() int {
	if s.MaxCards <= 0 {
		return MaxCards
	}
	return s.MaxCards
}

func (s Spec) linkAttr() string {
	if s.LinkAttr == "" {
		return "href"
	}
	return s.LinkAttr
}

func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FindCards returns the matches of the first selector in chain with a
// non-empty result, plus that selector. Nothing matched -> empty selection, "".
func FindCards(doc *goquery.Document, chain Chain) (*goquery.Selection, string) {
	for _, sel := range chain {
		found := doc.Find(sel)
		if found.Length() > 0 {
			return found, sel
		}
	}
	return doc.Find("__no_match__"), ""
}

// ExtractField walks chain inside card. For the first element found the value
// of attr wins when present and non-blank, otherwise the cleaned text. A blank
// value falls through to the next selector.
func ExtractField(card *goquery.Selection, chain Chain, attr string) (string, bool) {
	for _, sel := range chain {
		node := card.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if attr != "" {
			if v, ok := node.Attr(attr); ok {
				if v = util.CleanText(v); v != "" {
					return v, true
				}
			}
		}
		if v := util.CleanText(node.Text()); v != "" {
			return v, true
		}
	}
	return "", false
}

// ExtractAttr is ExtractField without the text fallback.
func ExtractAttr(card *goquery.Selection, chain Chain, attr string) (string, bool) {
	for _, sel := range chain {
		v, ok := card.Find(sel).First().Attr(attr)
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// Extract turns the cards of doc into candidates. At most spec.MaxCards cards
// are visited; cards without title or company are dropped.
func Extract(doc *goquery.Document, spec Spec, now time.Time, logger *log.Logger) []domain.Candidate {
	if logger == nil {
		logger = log.Default()
	}
	if doc == nil {
		return nil
	}

	cards, sel := FindCards(doc, spec.Cards)
	if sel == "" {
		logger.Printf("[extract:%s] no cards matched (%d selectors tried)", spec.Name, len(spec.Cards))
		return nil
	}
	logger.Printf("[extract:%s] %d cards via %q", spec.Name, cards.Length(), sel)

	limit := spec.maxCards()
	out := make([]domain.Candidate, 0, min(limit, cards.Length()))
	visited := 0
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if visited >= limit {
			return false
		}
		visited++
		if c, ok := extractCard(card, spec, now, logger, i); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

func extractCard(card *goquery.Selection, spec Spec, now time.Time, logger *log.Logger, i int) (c domain.Candidate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("[extract:%s] card %d panic: %v", spec.Name, i, r)
			c, ok = domain.Candidate{}, false
		}
	}()

	title, hasTitle := ExtractField(card, spec.Fields.Title, spec.TitleAttr)
	company, hasCompany := ExtractField(card, spec.Fields.Company, "")
	if !hasTitle || !hasCompany {
		logger.Printf("[extract:%s] card %d skipped title=%q company=%q", spec.Name, i, title, company)
		return domain.Candidate{}, false
	}

	loc, _ := ExtractField(card, spec.Fields.Location, "")
	loc = util.NormalizeLocation(loc)
	if loc == "" {
		loc = domain.DefaultLocation
	}
	desc, _ := ExtractField(card, spec.Fields.Description, "")

	var link string
	if href, ok := ExtractAttr(card, spec.Fields.Link, spec.linkAttr()); ok {
		link = util.CanonicalizeURL(util.ResolveURL(spec.BaseURL, href))
	}

	return domain.Candidate{
		Title:       title,
		Company:     company,
		Location:    loc,
		Description: desc,
		URL:         link,
		Source:      spec.Name,
		PostedDate:  now.UTC(),
	}, true
}
