package driven

// ConfigStore provides access to the persisted configuration file.
// Keys use dot notation ("sync.batch_size"); typed getters return the
// zero value when a key is missing or holds another type.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Keys returns every configured key, sorted.
	Keys() []string

	// Set stores a configuration value and persists it immediately.
	// On a failed write the previous value is kept.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load re-reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
