package cache

import "time"

const shareKeyPrefix = "share:"

// ShareTTL bounds how long a hash→owner resolution is served from Redis.
const ShareTTL = 10 * time.Minute

// RevokedOwner is cached under a share key after the link is deleted. Owner
// ids start at 1, so it never names a real user.
const RevokedOwner uint = 0

// ShareKey is the Redis key caching the owner of a share hash.
func ShareKey(hash string) string {
	return shareKeyPrefix + hash
}

// ShareKeys maps hashes to their cache keys.
func ShareKeys(hashes []string) []string {
	keys := make([]string, 0, len(hashes))
	for _, h := range hashes {
		keys = append(keys, ShareKey(h))
	}
	return keys
}
