package normalize

import "fmt"

// ArticleID derives the stable article identity from (url, provider, title).
// The hash is a non-cryptographic, order-dependent 31-multiplier hash over the
// concatenated inputs, reduced to a signed 32-bit value and rendered as
// "{provider}_{abs(hash)}". Determinism is the required property here: the
// same three inputs always produce the same ID, which is what makes
// de-duplication and idempotent caching work. Collision resistance is not.
func ArticleID(url, provider, title string) string {
	var h int32
	for _, b := range []byte(url + provider + title) {
		h = h*31 + int32(b)
	}
	// int64 widening avoids overflow when negating math.MinInt32.
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("%s_%d", provider, abs)
}
