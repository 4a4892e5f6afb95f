// config/overlay.go
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SelectorsFile lets site markup fixes ship without touching config.yml.
//
//	sources:
//	  indeed:
//	    cards: ["div.job_seen_beacon"]
type SelectorsFile struct {
	Sources map[string]Selectors `yaml:"sources"`
}

// OverlaySelectors replaces, per source and per field, the chains listed in
// selectorsPath. A missing file is not an error.
func OverlaySelectors(cfg *Config, selectorsPath string) error {
	b, err := os.ReadFile(selectorsPath)
	if err != nil {
		// Missing selectors file should not kill startup
		return nil
	}

	var sf SelectorsFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return err
	}

	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		ov, ok := lookupFold(sf.Sources, src.ID)
		if !ok {
			continue
		}
		sel := &src.Selectors
		replace(&sel.Cards, ov.Cards)
		replace(&sel.Title, ov.Title)
		replace(&sel.Company, ov.Company)
		replace(&sel.Location, ov.Location)
		replace(&sel.Description, ov.Description)
		replace(&sel.Link, ov.Link)
		if ov.TitleAttr != "" {
			sel.TitleAttr = ov.TitleAttr
		}
		if ov.LinkAttr != "" {
			sel.LinkAttr = ov.LinkAttr
		}
	}
	return nil
}

func replace(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}

func lookupFold(m map[string]Selectors, id string) (Selectors, bool) {
	for k, v := range m {
		if strings.EqualFold(k, id) {
			return v, true
		}
	}
	return Selectors{}, false
}
