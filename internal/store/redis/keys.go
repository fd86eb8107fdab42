package redis

// Redis key layout for the publish journal.
const (
	// KeyPrefixEntry is the prefix for individual journal entries
	KeyPrefixEntry = "scribe:publish:"
	// KeyRecent is the list of recent entry IDs, newest first
	KeyRecent = "scribe:publishes:recent"
)

// EntryKey returns the Redis key for a journal entry by ID
func EntryKey(id string) string {
	return KeyPrefixEntry + id
}
