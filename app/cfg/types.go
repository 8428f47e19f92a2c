package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	SelectorsFile     string

	// Browser configuration
	UserAgent         string
	NavigationTimeout int
	ConsentTimeout    int
	RenderDelay       int
	Headful           bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
