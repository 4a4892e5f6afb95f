// Package ingest turns listings submitted from outside the process (the
// browser extension) into store-ready values.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/scrape/util"
)

const (
	DefaultSource = "Extension"
	MaxBodyBytes  = 4 << 20
	MaxItems      = 1000
)

var ErrPayload = errors.New("invalid payload")

// PayloadError means the body as a whole is unusable.
type PayloadError struct {
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid payload: %s: %v", e.Reason, e.Err)
	}
	return "invalid payload: " + e.Reason
}

func (e *PayloadError) Unwrap() error        { return e.Err }
func (e *PayloadError) Is(target error) bool { return target == ErrPayload }

type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type Result struct {
	Accepted []domain.JobListing
	Rejected []Rejection
}

type item struct {
	ID                        string `json:"id" validate:"max=100"`
	Title                     string `json:"title" validate:"required,max=500"`
	Company                   string `json:"company" validate:"required,max=300"`
	Location                  string `json:"location" validate:"max=300"`
	Description               string `json:"description" validate:"max=20000"`
	URL                       string `json:"url" validate:"omitempty,http_url,max=2048"`
	Source                    string `json:"source" validate:"max=100"`
	PostedDate                string `json:"postedDate"`
	RequiresSecurityClearance bool   `json:"requiresSecurityClearance"`
}

// Decoder validates and coerces submitted listings. With Policy set, items
// failing the eligibility filter are rejected too; by default the flag sent
// by the client is trusted as is.
type Decoder struct {
	Policy *filter.Policy

	validate *validator.Validate
}

func NewDecoder(policy *filter.Policy) *Decoder {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &Decoder{Policy: policy, validate: v}
}

// Decode reads a JSON array of listings from r.
func (d *Decoder) Decode(r io.Reader, now time.Time) (Result, error) {
	var res Result

	body, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return res, &PayloadError{Reason: "read body", Err: err}
	}
	if len(body) > MaxBodyBytes {
		return res, &PayloadError{Reason: fmt.Sprintf("body larger than %d bytes", MaxBodyBytes)}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return res, &PayloadError{Reason: "expected a JSON array of listings"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return res, &PayloadError{Reason: "malformed JSON", Err: err}
	}
	if len(raw) > MaxItems {
		return res, &PayloadError{Reason: fmt.Sprintf("more than %d listings", MaxItems)}
	}

	for i, msg := range raw {
		var it item
		if err := json.Unmarshal(msg, &it); err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Reason: "not a listing object"})
			continue
		}
		it.trim()
		if err := d.validate.Struct(it); err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Reason: describe(err)})
			continue
		}
		j := it.listing(now)
		if d.Policy != nil && !d.Policy.IsEligible(domain.Candidate{Title: j.Title, Description: j.Description}) {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Reason: "not eligible"})
			continue
		}
		res.Accepted = append(res.Accepted, j)
	}
	return res, nil
}

func (it *item) trim() {
	it.ID = strings.TrimSpace(it.ID)
	it.Title = util.CleanText(it.Title)
	it.Company = util.CleanText(it.Company)
	it.Location = util.CleanText(it.Location)
	it.Description = strings.TrimSpace(it.Description)
	it.URL = strings.TrimSpace(it.URL)
	it.Source = strings.TrimSpace(it.Source)
	it.PostedDate = strings.TrimSpace(it.PostedDate)
}

func (it item) listing(now time.Time) domain.JobListing {
	c := domain.Candidate{
		Title:       it.Title,
		Company:     it.Company,
		Location:    it.Location,
		Description: it.Description,
		URL:         util.CanonicalizeURL(it.URL),
		Source:      it.Source,
		PostedDate:  parseDate(it.PostedDate),
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	j := domain.NewListing(c, now)
	j.RequiresSecurityClearance = it.RequiresSecurityClearance
	return j
}

// parseDate accepts RFC 3339 and the zone-less form some clients send.
// Anything else means "unknown".
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func describe(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err.Error()
	}
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, name+" is required")
		case "http_url":
			parts = append(parts, name+" must be an absolute http(s) URL")
		case "max":
			parts = append(parts, fmt.Sprintf("%s longer than %s", name, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", name, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
