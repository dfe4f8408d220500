// internal/storage/avatar.go
package storage

import "net/url"

// DefaultAvatarBaseURL is the DiceBear-style endpoint used when no
// override is configured.
const DefaultAvatarBaseURL = "https://api.dicebear.com/9.x/thumbs/png"

// AvatarURL maps a seed string to a deterministic pseudo-avatar image URL.
// Same seed, same image; pure URL templating, no network call.
func AvatarURL(baseURL, seed string) string {
	if baseURL == "" {
		baseURL = DefaultAvatarBaseURL
	}
	return baseURL + "?seed=" + url.QueryEscape(seed)
}
