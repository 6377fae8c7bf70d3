package redis

import "fmt"

const defaultKeyPrefix = "bakery"

// entityListKey returns the Redis key holding the JSON list for one entity kind
func entityListKey(prefix, kind string) string {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return fmt.Sprintf("%s:%s", prefix, kind)
}
