package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobfinder-engine/internal/scrape/extract"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(v.Errors, "\n- "))
}

var validate = validator.New()

// NormalizeAndValidate returns a normalized copy of cfg together with the
// problems found. Callers refuse to run or save when Errors is non-empty.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filter.Tech = trimList(out.Filter.Tech)
	out.Filter.RolePrimary = trimList(out.Filter.RolePrimary)
	out.Filter.RoleSecondary = trimList(out.Filter.RoleSecondary)
	out.Filter.Clearance = trimList(out.Filter.Clearance)

	out.Sources = append([]Source(nil), cfg.Sources...)
	for i := range out.Sources {
		s := &out.Sources[i]
		s.ID = strings.ToLower(strings.TrimSpace(s.ID))
		s.Display = strings.TrimSpace(s.Display)
		if s.Display == "" {
			s.Display = s.ID
		}
		s.Render = strings.ToLower(strings.TrimSpace(s.Render))
		if s.Render == "" {
			s.Render = RenderHTTP
		}
		// selectors keep their order; only blanks go
		s.Selectors.Cards = dropBlank(s.Selectors.Cards)
		s.Selectors.Title = dropBlank(s.Selectors.Title)
		s.Selectors.Company = dropBlank(s.Selectors.Company)
		s.Selectors.Location = dropBlank(s.Selectors.Location)
		s.Selectors.Description = dropBlank(s.Selectors.Description)
		s.Selectors.Link = dropBlank(s.Selectors.Link)
	}
	out.Scrape.Query = strings.TrimSpace(out.Scrape.Query)

	// ---- Validation rules ----

	if err := validate.Struct(out); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			for _, fe := range ves {
				if fe.Param() != "" {
					res.addErr("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
				} else {
					res.addErr("%s failed %s", fe.Namespace(), fe.Tag())
				}
			}
		} else {
			res.addErr("%v", err)
		}
	}

	// the policy is a conjunction, an empty list means nothing ever matches
	if len(out.Filter.Tech) == 0 {
		res.addErr("filter.tech must have at least 1 term")
	}
	if len(out.Filter.RolePrimary) == 0 || len(out.Filter.RoleSecondary) == 0 {
		res.addErr("filter.role_primary and filter.role_secondary must have at least 1 term")
	}
	if len(out.Filter.Clearance) == 0 {
		res.addErr("filter.clearance must have at least 1 term")
	}

	if out.Scrape.Query == "" {
		res.addWarn("scrape.query is empty; sites will return their default listing.")
	}
	if out.Polling.IntervalMinutes > 0 && out.Polling.IntervalMinutes < 5 {
		res.addWarn("polling.interval_minutes is very low (%d) and may get the engine blocked.", out.Polling.IntervalMinutes)
	}

	seen := map[string]bool{}
	for i, s := range out.Sources {
		name := fmt.Sprintf("sources[%d]", i)
		if s.ID == "all" || s.ID == "llm" {
			res.addErr("%s.id %q is reserved", name, s.ID)
		}
		if seen[s.ID] {
			res.addErr("%s.id %q is duplicated", name, s.ID)
		}
		seen[s.ID] = true

		if !strings.Contains(s.SearchURL, "{query}") {
			res.addWarn("%s.search_url has no {query} placeholder; the search terms are ignored.", name)
		}
		if s.PacingMaxMS < s.PacingMinMS {
			res.addErr("%s.pacing_max_ms must be >= pacing_min_ms", name)
		}

		checkChain := func(field string, chain []string, required bool) {
			if len(chain) == 0 {
				if required {
					res.addErr("%s.selectors.%s must have at least 1 selector", name, field)
				}
				return
			}
			if err := extract.Chain(chain).Validate(); err != nil {
				res.addErr("%s.selectors.%s: %v", name, field, err)
			}
		}
		checkChain("cards", s.Selectors.Cards, true)
		checkChain("title", s.Selectors.Title, true)
		checkChain("company", s.Selectors.Company, true)
		checkChain("location", s.Selectors.Location, false)
		checkChain("description", s.Selectors.Description, false)
		checkChain("link", s.Selectors.Link, false)
		if len(s.Selectors.Link) == 0 && !s.Disabled {
			res.addWarn("%s has no link selectors; every listing gets a synthetic key.", name)
		}
	}

	if len(out.EnabledSources()) == 0 && !out.LLM.Enabled {
		res.addWarn("no sources enabled; searches will always be empty.")
	}

	return out, res
}

func dropBlank(xs []string) []string {
	var ys []string
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			ys = append(ys, x)
		}
	}
	return ys
}
