package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rules is the YAML-backed heuristic data used by the pipeline.
//
//	domains:
//	  hinews.kr: 하이뉴스
//	junk_terms: [부고, ...]
type Rules struct {
	// Domains maps a publisher host to its display name.
	Domains map[string]string `yaml:"domains"`
	// GenericLabels are aggregator site names that never count as a publisher.
	GenericLabels []string `yaml:"generic_labels"`
	// JunkTerms reject a candidate when found in its title.
	JunkTerms []string `yaml:"junk_terms"`
	// ShortenerBlocklist hosts are delivered with their original link.
	ShortenerBlocklist []string `yaml:"shortener_blocklist"`
	// FeedHost is the feed search domain whose results skip the relevance check.
	FeedHost string `yaml:"feed_host"`
	// UnknownMedia is shown when no publisher could be resolved.
	UnknownMedia string `yaml:"unknown_media"`
}

// LoadRules reads rules from path, or the embedded defaults when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DecodeRules(bytes.NewReader(defaultRules))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()

	return DecodeRules(f)
}

// DecodeRules decodes YAML rules and fills unset fields from the defaults.
func DecodeRules(r io.Reader) (*Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&rules); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	var def Rules
	if err := yaml.Unmarshal(defaultRules, &def); err != nil {
		return nil, fmt.Errorf("decode default rules: %w", err)
	}
	rules.fillFrom(&def)

	return &rules, nil
}

func (r *Rules) fillFrom(def *Rules) {
	if r.Domains == nil {
		r.Domains = def.Domains
	}
	if r.GenericLabels == nil {
		r.GenericLabels = def.GenericLabels
	}
	if r.JunkTerms == nil {
		r.JunkTerms = def.JunkTerms
	}
	if r.ShortenerBlocklist == nil {
		r.ShortenerBlocklist = def.ShortenerBlocklist
	}
	if r.FeedHost == "" {
		r.FeedHost = def.FeedHost
	}
	if r.UnknownMedia == "" {
		r.UnknownMedia = def.UnknownMedia
	}
}
