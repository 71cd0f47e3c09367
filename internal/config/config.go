package config

// Config represents the full application configuration.
type Config struct {
	Git           GitConfig           `yaml:"git"`
	Local         LocalConfig         `yaml:"local"`
	Review        ReviewConfig        `yaml:"review"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitConfig configures repository discovery and branch handling.
type GitConfig struct {
	// RepositoryDir is where repository discovery starts.
	RepositoryDir string `yaml:"repositoryDir"`

	// BaseBranch is the integration branch the temporary branch is rebased
	// onto before the diff is synthesized.
	BaseBranch string `yaml:"baseBranch"`
}

// LocalConfig configures where publish operations write their files.
// Empty paths default to <repository root>/description.md and
// <repository root>/review.md.
type LocalConfig struct {
	DescriptionPath string `yaml:"descriptionPath"`
	ReviewPath      string `yaml:"reviewPath"`
}

// ReviewConfig configures review behavior.
type ReviewConfig struct {
	// InlineComments requests positioned review comments. The local provider
	// cannot place them, so this is forced off at startup regardless of the
	// configured value.
	InlineComments bool `yaml:"inlineComments"`
}

// StoreConfig configures the run-history persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warn, error
	Format  string `yaml:"format"` // json, human
}
