package config

import "time"

// Application constants
const (
	AppName    = "solarstock"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. SOLARSTOCK_LOGGING_LEVEL
	EnvPrefix = "SOLARSTOCK"

	// ConfigFileEnv names an explicit YAML config file
	ConfigFileEnv = "SOLARSTOCK_CONFIG_FILE"

	DefaultRegion            = "Berlin"
	DefaultCutoffYear        = 2005
	DefaultCapacityPrecision = 3
	DefaultOutputName        = "solar_berlin_yearly"

	// DefaultSnapshotGlob matches the register exports below the data directory;
	// the lexicographically last match is the newest data version.
	DefaultSnapshotGlob = "open_mastr/data/dataversion-*/bnetza_mastr_solar_raw.csv"

	DefaultDataDir    = "data"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "solarstock.log"

	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 20
	DefaultRateLimitBurst  = 40
)
