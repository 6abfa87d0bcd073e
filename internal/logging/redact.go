package logging

import (
	"net/url"
	"strings"
)

// SecretKeyPatterns contains substrings that indicate a key likely contains sensitive data.
// Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
	"PRIVATE",
}

// TokenPrefixes contains known token prefixes that mark a value as sensitive
// regardless of its key. Cargo registry tokens and the GitHub tokens used by
// authenticated tag listings both show up in command lines we log.
var TokenPrefixes = []string{
	"cio",  // crates.io API token
	"ghp_", // GitHub personal access token
	"gho_", // GitHub OAuth token
	"ghs_", // GitHub server-to-server token
	"github_pat_",
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskURL redacts the password of URLs with embedded credentials, such as a
// RUSTUP_DIST_SERVER mirror behind basic auth. Unparseable input is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		// "cio" alone is too short to be a token; registry tokens are 32+ chars.
		if prefix == "cio" && len(value) < 32 {
			continue
		}
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
