// Package redaction detects and scrubs secrets in text.
package redaction

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// Redactor finds secrets in text and replaces them.
// All fields are read-only after construction, making it safe for concurrent use.
type Redactor struct {
	patterns []*regexp.Regexp
	hashMode bool
	salt     string

	// If nil, only the regex patterns are used.
	gitleaksDetector *detect.Detector
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Custom patterns to redact (e.g. "INT-[A-Z0-9]{16}")
	Patterns []string
	// If true, replace with hash instead of [REDACTED]
	HashMode bool
	// Salt for hashing. If empty, hash is deterministic but unsalted.
	Salt string
	// If true, disable gitleaks detector and use only regex patterns
	DisableGitleaks bool
}

// Leak is a secret found in a piece of text.
type Leak struct {
	RuleID      string
	Description string
	Secret      string
	// Line is 1-based within the scanned text.
	Line int
}

// New creates a new Redactor with the given configuration.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		hashMode: cfg.HashMode,
		salt:     cfg.Salt,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)+len(defaultPatterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err != nil {
			return nil, err
		}
		r.gitleaksDetector = detector
	}

	for _, p := range defaultPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile default pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile custom pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector creates a new gitleaks detector with default configuration.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// Detect returns the secrets found in text, ordered by line.
func (r *Redactor) Detect(text string) []Leak {
	if text == "" {
		return nil
	}

	var leaks []Leak
	seen := make(map[string]bool)

	if r.gitleaksDetector != nil {
		for _, f := range r.gitleaksDetector.Detect(detect.Fragment{Raw: text}) {
			if f.Secret == "" || seen[f.Secret] {
				continue
			}
			seen[f.Secret] = true
			leaks = append(leaks, Leak{
				RuleID:      f.RuleID,
				Description: f.Description,
				Secret:      f.Secret,
				Line:        lineOf(text, strings.Index(text, f.Secret)),
			})
		}
	}

	for _, re := range r.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			secret := text[loc[0]:loc[1]]
			if seen[secret] {
				continue
			}
			seen[secret] = true
			leaks = append(leaks, Leak{
				RuleID:      "pattern",
				Description: "matched " + re.String(),
				Secret:      secret,
				Line:        lineOf(text, loc[0]),
			})
		}
	}

	sort.SliceStable(leaks, func(i, j int) bool { return leaks[i].Line < leaks[j].Line })
	return leaks
}

// lineOf returns the 1-based line holding byte offset off.
func lineOf(text string, off int) int {
	if off < 0 {
		return 1
	}
	return strings.Count(text[:off], "\n") + 1
}

// ScrubString replaces every detected secret in input.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}

	result := input
	for _, leak := range r.Detect(input) {
		result = strings.ReplaceAll(result, leak.Secret, r.replacement(leak.Secret))
	}
	return result
}

func (r *Redactor) replacement(secret string) string {
	if r.hashMode {
		return r.hash(secret)
	}
	return "[REDACTED]"
}

// hash returns a truncated HMAC-SHA256 hash of the secret.
// Format: [hmac:a1b2c3d4e5f6g7h8]
func (r *Redactor) hash(secret string) string {
	mac := hmac.New(sha256.New, []byte(r.salt))
	mac.Write([]byte(secret))
	sum := mac.Sum(nil)

	return fmt.Sprintf("[hmac:%s]", hex.EncodeToString(sum)[:16])
}

// defaultPatterns contains regexes for common secrets.
var defaultPatterns = []string{
	// AWS Access Key ID
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	// Generic Private Key Header
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	// Github Token
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	// Slack Token
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
}
