package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultLocation = "Remote"

// JobListing is the unit stored and served by the engine. The JSON names are
// shared with the browser extension payload.
type JobListing struct {
	ID                        string    `json:"id"`
	Title                     string    `json:"title"`
	Company                   string    `json:"company"`
	Location                  string    `json:"location"`
	Description               string    `json:"description"`
	URL                       string    `json:"url"`
	Source                    string    `json:"source"`
	PostedDate                time.Time `json:"postedDate"`
	RequiresSecurityClearance bool      `json:"requiresSecurityClearance"`
}

// Candidate is a listing pulled out of markup before the eligibility filter ran.
type Candidate struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Source      string
	PostedDate  time.Time
}

// Text is what keyword policies are evaluated against.
func (c Candidate) Text() string {
	return c.Title + " " + c.Description
}

// NewListing turns a candidate that passed the filter into a listing.
func NewListing(c Candidate, now time.Time) JobListing {
	posted := c.PostedDate
	if posted.IsZero() {
		posted = now.UTC()
	}
	loc := c.Location
	if loc == "" {
		loc = DefaultLocation
	}
	return JobListing{
		ID:                        uuid.NewString(),
		Title:                     c.Title,
		Company:                   c.Company,
		Location:                  loc,
		Description:               c.Description,
		URL:                       c.URL,
		Source:                    c.Source,
		PostedDate:                posted,
		RequiresSecurityClearance: true,
	}
}
