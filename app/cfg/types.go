package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	FeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Fetch configuration
	FetchTimeout  int
	MaxRedirects  int
	SkipTLSVerify bool
	UserAgent     string

	// Application metadata
	Debug   bool
	Version string
}
