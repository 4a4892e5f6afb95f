// Package llm is a listing source that asks a Gemini model for postings
// instead of scraping a site. Without a credential it serves the sample set.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/scrape/util"
)

const (
	SourceID      = "llm"
	SourceDisplay = "LLM"
	DefaultModel  = "gemini-1.5-flash"
)

// Generator returns raw JSON text for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type Source struct {
	Gen    Generator // nil -> sample data
	Policy filter.Policy
	Query  string
	Limit  int
	Logger *log.Logger
	Now    func() time.Time
}

func (s *Source) Name() string { return SourceID }

func (s *Source) Search(ctx context.Context) (out []domain.JobListing) {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("[scrape:llm] panic: %v", r)
			out = s.samples(now)
		}
	}()

	if s.Gen == nil {
		logger.Printf("[scrape:llm] no api key, serving sample data")
		return s.samples(now)
	}

	raw, err := s.Gen.GenerateJSON(ctx, s.prompt())
	if err != nil {
		logger.Printf("[scrape:llm] generate failed, serving sample data: %v", err)
		return s.samples(now)
	}

	items, err := decodeItems(raw)
	if err != nil {
		logger.Printf("[scrape:llm] %v, serving sample data", err)
		return s.samples(now)
	}

	for _, it := range items {
		c := it.candidate(now)
		if c.Title == "" || c.Company == "" || !s.Policy.IsEligible(c) {
			continue
		}
		out = append(out, domain.NewListing(c, now))
	}
	logger.Printf("[scrape:llm] %d items, %d eligible", len(items), len(out))
	return out
}

// samples is the fallback set, held to the same policy as model output.
func (s *Source) samples(now time.Time) []domain.JobListing {
	var out []domain.JobListing
	for _, j := range domain.SampleListings(now) {
		c := domain.Candidate{Title: j.Title, Description: j.Description}
		if s.Policy.IsEligible(c) {
			j.Source = SourceDisplay
			out = append(out, j)
		}
	}
	return out
}

func (s *Source) prompt() string {
	limit := s.Limit
	if limit <= 0 {
		limit = 10
	}
	p := s.Policy
	var b strings.Builder
	fmt.Fprintf(&b, "List up to %d current job postings for the search %q.\n", limit, s.Query)
	fmt.Fprintf(&b, "Every posting must be a %s %s role, mention at least one of: %s, ",
		strings.Join(p.RolePrimary, "/"), strings.Join(p.RoleSecondary, "/"), strings.Join(p.Tech, ", "))
	fmt.Fprintf(&b, "and require a security clearance (%s).\n", strings.Join(p.Clearance, ", "))
	b.WriteString(`Respond with a JSON array only. Each element: {"title","company","location","description","url","postedDate"} `)
	b.WriteString("where url is the absolute posting URL and postedDate is RFC3339 or empty.")
	return b.String()
}

type item struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PostedDate  string `json:"postedDate"`
}

func (it item) candidate(now time.Time) domain.Candidate {
	posted := now.UTC()
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(it.PostedDate)); err == nil {
		posted = t.UTC()
	}
	link := strings.TrimSpace(it.URL)
	if !util.IsAbsoluteHTTP(link) {
		link = ""
	}
	loc := util.NormalizeLocation(it.Location)
	if loc == "" {
		loc = domain.DefaultLocation
	}
	return domain.Candidate{
		Title:       util.CleanText(it.Title),
		Company:     util.CleanText(it.Company),
		Location:    loc,
		Description: util.CleanText(it.Description),
		URL:         util.CanonicalizeURL(link),
		Source:      SourceDisplay,
		PostedDate:  posted,
	}
}

func decodeItems(raw string) ([]item, error) {
	raw = cleanJSONBlock(raw)
	var items []item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// some models wrap the array in an object
		var wrapped struct {
			Jobs []item `json:"jobs"`
		}
		if err2 := json.Unmarshal([]byte(raw), &wrapped); err2 != nil || wrapped.Jobs == nil {
			return nil, fmt.Errorf("decode model output: %w", err)
		}
		items = wrapped.Jobs
	}
	return items, nil
}

func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Gemini implements Generator.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0.1)
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response")
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
