package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// computeHash computes a hash of the content using xxhash.
func computeHash(content []byte) string {
	h := xxhash.Sum64(content)
	return fmt.Sprintf("%016x", h)
}

// ComputeHash computes a hash of the content using xxhash.
// This is the exported version for use in CLI commands and tests.
func ComputeHash(content []byte) string {
	return computeHash(content)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
// maxLen counts runes, so multi-byte characters are never split.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(url)
	if len(runes) <= maxLen {
		return url
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return string(runes[:maxLen])
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
