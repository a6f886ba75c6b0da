// Package rules holds the pure field predicates shared by validation and
// profile enrichment.
package rules

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	bannedWords       = []string{"spam", "banned", "offensive", "illegal"}
	techKeywords      = []string{"smart", "digital", "electric", "tech", "wireless", "auto", "phone", "screen"}
	homeRestricted    = []string{"toxic", "industrial", "hazardous", "medical"}
	imageExtensions   = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	brandPattern      = regexp.MustCompile(`^[A-Za-z0-9 \-'.]+$`)
	skuPattern        = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
	allowedURLSchemes = map[string]bool{"http": true, "https": true}
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsAppropriateName fails blank names and names containing a banned word.
func IsAppropriateName(name string) bool {
	if IsBlank(name) {
		return false
	}
	return !containsAny(name, bannedWords)
}

// IsValidBrandFormat accepts letters, digits, spaces, hyphens, apostrophes and periods.
func IsValidBrandFormat(brand string) bool {
	return brand != "" && brandPattern.MatchString(brand)
}

// IsValidSKUFormat accepts letters, digits and hyphens.
func IsValidSKUFormat(sku string) bool {
	return sku != "" && skuPattern.MatchString(sku)
}

// IsValidImageURL accepts an empty value. Otherwise the value must be an
// absolute http(s) URL whose path ends with a known image extension.
func IsValidImageURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	if !allowedURLSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ContainsTechKeyword reports whether the name mentions a technology keyword.
func ContainsTechKeyword(name string) bool {
	if IsBlank(name) {
		return false
	}
	return containsAny(name, techKeywords)
}

// IsHomeAppropriate is false when the name contains a word restricted for
// the Home category.
func IsHomeAppropriate(name string) bool {
	return !containsAny(name, homeRestricted)
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
