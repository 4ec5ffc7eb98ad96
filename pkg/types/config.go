package types

// FallbackMode controls what Search, GetContent and DownloadContent do when
// the repository request fails.
type FallbackMode string

const (
	// FallbackPropagate returns the formatted error to the caller.
	FallbackPropagate FallbackMode = "propagate"

	// FallbackMock logs a warning and answers with deterministic mock data.
	FallbackMock FallbackMode = "mock"
)

// Valid reports whether m is a known mode. The empty mode is valid and
// means FallbackPropagate.
func (m FallbackMode) Valid() bool {
	switch m {
	case "", FallbackPropagate, FallbackMock:
		return true
	}
	return false
}

// RepositoryConfig holds the connection settings for a repository.
type RepositoryConfig struct {
	// BaseURL is the repository API root (e.g. "https://repo.example.org/api").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Auth holds optional credentials. An empty APIKey means unauthenticated.
	Auth AuthConfig `json:"auth" yaml:"auth" mapstructure:"auth"`

	// Fallback selects mock or propagate behaviour on request failure.
	Fallback FallbackMode `json:"fallback" yaml:"fallback" mapstructure:"fallback"`

	// SecretsDir is scanned for a repository-api-key file when Auth.APIKey is empty.
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// CLIConfig groups everything the usdm-repo command reads from its config
// file, environment and flags.
type CLIConfig struct {
	Repository RepositoryConfig `json:"repository" yaml:"repository" mapstructure:"repository"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
