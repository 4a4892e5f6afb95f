package util

import (
	"net/url"
	"sort"
	"strings"
)

// ResolveURL makes href absolute against the origin of base. Links already
// carrying an http(s) scheme are returned untouched.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lh := strings.ToLower(href)
	if strings.HasPrefix(lh, "http://") || strings.HasPrefix(lh, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}

	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || b.Host == "" {
		return href
	}
	scheme := b.Scheme
	if scheme == "" {
		scheme = "https"
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return scheme + "://" + b.Host + href
}

// CanonicalizeURL lowercases scheme and host, drops the fragment and common
// tracking params and sorts the query so one posting always has one key.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IsAbsoluteHTTP reports whether raw parses as an http(s) URL with a host.
func IsAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Origin returns scheme://host of raw, or "" when raw has no host.
func Origin(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}
