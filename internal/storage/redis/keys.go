package redis

import "fmt"

// Key prefix for all client data
const keyPrefix = "mobboss"

// sessionKey returns the Redis key for the persisted host session
func sessionKey(namespace string) string {
	return fmt.Sprintf("%s:%s:session", keyPrefix, namespace)
}

// lastIdentityKey returns the Redis key for the last known identity
func lastIdentityKey(namespace string) string {
	return fmt.Sprintf("%s:%s:last_identity", keyPrefix, namespace)
}
