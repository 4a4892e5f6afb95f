package extract

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	quiet = log.New(io.Discard, "", 0)
	now   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func indeedSpec() Spec {
	return Spec{
		Name:    "Indeed",
		BaseURL: "https://www.indeed.com",
		Cards:   Chain{"div.job_seen_beacon", "td.resultContent", "li.result", "article"},
		Fields: FieldChains{
			Title:       Chain{"h2.jobTitle span[title]", "h2 a", "a.jcs-JobTitle"},
			Company:     Chain{"span[data-testid=company-name]", "span.companyName"},
			Location:    Chain{"div[data-testid=text-location]", "div.companyLocation"},
			Description: Chain{"div.job-snippet", "div.summary"},
			Link:        Chain{"h2 a", "a.jcs-JobTitle"},
		},
		TitleAttr: "title",
	}
}

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract_PrimarySelectors(t *testing.T) {
	doc := mustParse(t, `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/viewjob?id=42"><span title="Full Stack Engineer">Full Stack Engineer</span></a></h2>
  <span data-testid="company-name">Acme Federal</span>
  <div data-testid="text-location">Arlington, VA</div>
  <div class="job-snippet">C# and Azure. Secret clearance required.</div>
</div>
</body></html>`)

	got := Extract(doc, indeedSpec(), now, quiet)
	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, "Full Stack Engineer", c.Title)
	assert.Equal(t, "Acme Federal", c.Company)
	assert.Equal(t, "Arlington, VA", c.Location)
	assert.Equal(t, "C# and Azure. Secret clearance required.", c.Description)
	assert.Equal(t, "https://www.indeed.com/viewjob?id=42", c.URL)
	assert.Equal(t, "Indeed", c.Source)
	assert.Equal(t, now, c.PostedDate)
}

func TestExtract_FallbackSelectorsYieldSameFields(t *testing.T) {
	primary := mustParse(t, `<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/viewjob?id=42"><span title="Full Stack Engineer">x</span></a></h2>
  <span data-testid="company-name">Acme Federal</span>
  <div data-testid="text-location">Arlington, VA</div>
  <div class="job-snippet">C# and Azure.</div>
</div>`)
	// only the last card selector and the last selector of each field match
	fallback := mustParse(t, `<article>
  <a class="jcs-JobTitle" href="/viewjob?id=42">Full Stack Engineer</a>
  <span class="companyName">Acme Federal</span>
  <div class="companyLocation">Arlington, VA</div>
  <div class="summary">C# and Azure.</div>
</article>`)

	a := Extract(primary, indeedSpec(), now, quiet)
	b := Extract(fallback, indeedSpec(), now, quiet)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0], b[0])
}

func TestExtract_RelativeURLResolvedAgainstBase(t *testing.T) {
	doc := mustParse(t, `<li class="result"><h2><a href="/viewjob?id=42">Dev</a></h2><span class="companyName">Co</span></li>`)
	got := Extract(doc, indeedSpec(), now, quiet)
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.indeed.com/viewjob?id=42", got[0].URL)
}

func TestExtract_CapsAtMaxCards(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 35; i++ {
		fmt.Fprintf(&b, `<article><h2><a href="/viewjob?id=%d">Dev %d</a></h2><span class="companyName">Co</span></article>`, i, i)
	}
	doc := mustParse(t, b.String())

	got := Extract(doc, indeedSpec(), now, quiet)
	require.Len(t, got, MaxCards)
	assert.Equal(t, "Dev 0", got[0].Title)
	assert.Equal(t, "Dev 19", got[19].Title)

	spec := indeedSpec()
	spec.MaxCards = 3
	assert.Len(t, Extract(doc, spec, now, quiet), 3)
}

func TestExtract_SkipsCardsMissingTitleOrCompany(t *testing.T) {
	doc := mustParse(t, `
<article><h2><a href="/viewjob?id=1">No company</a></h2></article>
<article><span class="companyName">No title</span></article>
<article><h2><a href="/viewjob?id=2">   </a></h2><span class="companyName">Blank title</span></article>
<article><h2><a href="/viewjob?id=3">Kept</a></h2><span class="companyName">Co</span></article>`)

	got := Extract(doc, indeedSpec(), now, quiet)
	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Title)
}

func TestExtract_DefaultsWhenOptionalFieldsMissing(t *testing.T) {
	doc := mustParse(t, `<article><h2><a>Dev</a></h2><span class="companyName">Co</span></article>`)
	got := Extract(doc, indeedSpec(), now, quiet)
	require.Len(t, got, 1)
	assert.Equal(t, "Remote", got[0].Location)
	assert.Equal(t, "", got[0].Description)
	assert.Equal(t, "", got[0].URL)
}

func TestExtract_NoCards(t *testing.T) {
	doc := mustParse(t, `<html><body><p>blocked</p></body></html>`)
	assert.Empty(t, Extract(doc, indeedSpec(), now, quiet))
	assert.Nil(t, Extract(nil, indeedSpec(), now, quiet))
}

func TestFindCards_ReportsMatchingSelector(t *testing.T) {
	doc := mustParse(t, `<li class="result"></li><li class="result"></li>`)
	cards, sel := FindCards(doc, indeedSpec().Cards)
	assert.Equal(t, "li.result", sel)
	assert.Equal(t, 2, cards.Length())

	cards, sel = FindCards(doc, Chain{"div.none"})
	assert.Equal(t, "", sel)
	assert.Equal(t, 0, cards.Length())
}

func TestExtractField_AttributePreferredOverText(t *testing.T) {
	doc := mustParse(t, `<div><span class="t" title="From Attr">From Text</span><span class="u" title=" ">Text Only</span></div>`)
	card := doc.Find("div")

	v, ok := ExtractField(card, Chain{"span.t"}, "title")
	require.True(t, ok)
	assert.Equal(t, "From Attr", v)

	v, ok = ExtractField(card, Chain{"span.u"}, "title")
	require.True(t, ok)
	assert.Equal(t, "Text Only", v)

	_, ok = ExtractField(card, Chain{"span.none"}, "")
	assert.False(t, ok)
}

func TestExtractAttr(t *testing.T) {
	doc := mustParse(t, `<div><a class="a">no href</a><a class="b" href="/x">x</a></div>`)
	card := doc.Find("div")

	v, ok := ExtractAttr(card, Chain{"a.a", "a.b"}, "href")
	require.True(t, ok)
	assert.Equal(t, "/x", v)

	_, ok = ExtractAttr(card, Chain{"a.a"}, "href")
	assert.False(t, ok)
}

func TestChainValidate(t *testing.T) {
	require.NoError(t, indeedSpec().Cards.Validate())
	assert.Error(t, Chain{"div["}.Validate())
	assert.Error(t, Chain{" "}.Validate())
}

func TestExtract_TitleTextUnlessAttrConfigured(t *testing.T) {
	doc := mustParse(t, `<html><body>
<section class="card-content">
  <h2><a href="/job/7" title="Apply now">Full Stack Engineer</a></h2>
  <span class="company">Fed</span>
</section>
</body></html>`)
	spec := Spec{
		Name:    "Monster",
		BaseURL: "https://www.monster.com",
		Cards:   Chain{"section.card-content"},
		Fields: FieldChains{
			Title:   Chain{"h2 a"},
			Company: Chain{"span.company"},
			Link:    Chain{"h2 a"},
		},
	}

	got := Extract(doc, spec, now, quiet)
	require.Len(t, got, 1)
	assert.Equal(t, "Full Stack Engineer", got[0].Title)

	spec.TitleAttr = "title"
	got = Extract(doc, spec, now, quiet)
	require.Len(t, got, 1)
	assert.Equal(t, "Apply now", got[0].Title)
}
