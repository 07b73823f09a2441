package sources

// Source describes one RSS/Atom feed the scheduler fetches.
type Source struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	Timeout         int    `yaml:"timeout"`          // seconds
	Audience        string `yaml:"audience"`         // tailors LLM summaries
}
