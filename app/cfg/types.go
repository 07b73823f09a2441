package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Digest delivery
	DigestHour int

	// SMTP transport
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// LLM enrichment (optional)
	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
