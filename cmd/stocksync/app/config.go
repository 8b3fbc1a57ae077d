package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/sync"
	"github.com/stocksync/stocksync/pkg/types"
)

// Environment keys for collaborator credentials.
const (
	EnvZenventoryAPIKey    = "ZENVENTORY_API_KEY"
	EnvZenventoryAPISecret = "ZENVENTORY_API_SECRET"
	EnvAirtableAPIKey      = "AIRTABLE_API_KEY"
	EnvAirtableBaseID      = "AIRTABLE_BASE_ID"
	EnvEasyPostAPIKey      = "EASYPOST_API_KEY"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Collaborator credentials
	ZenventoryAPIKey    string
	ZenventoryAPISecret string
	AirtableAPIKey      string
	AirtableBaseID      string
	EasyPostAPIKey      string

	// Report window: a fixed range, or the last ReportDays days when set
	ReportStart string
	ReportEnd   string
	ReportDays  int

	// Run settings
	HTTPTimeout       time.Duration
	RunTimeout        time.Duration
	InventoryTable    string
	ShipmentTable     string
	DomesticCountries []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.stocksync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// LoadConfigFile is LoadConfig with an explicit config file in place of
// ~/.stocksync.yaml. The file must exist.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(path)
}

func loadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	configFile := path
	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(".")
			v.SetConfigType("yaml")
			v.SetConfigName(".stocksync")
		}
	}

	// The default config file is optional; a named one is not
	if err := v.ReadInConfig(); err != nil && path != "" {
		return nil, errors.NewConfigError("config file", "cannot read "+path+": "+err.Error(), err)
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ZenventoryAPIKey:    v.GetString(EnvZenventoryAPIKey),
		ZenventoryAPISecret: v.GetString(EnvZenventoryAPISecret),
		AirtableAPIKey:      v.GetString(EnvAirtableAPIKey),
		AirtableBaseID:      v.GetString(EnvAirtableBaseID),
		EasyPostAPIKey:      v.GetString(EnvEasyPostAPIKey),

		ReportStart: v.GetString("report_start_date"),
		ReportEnd:   v.GetString("report_end_date"),
		ReportDays:  v.GetInt("report_days"),

		HTTPTimeout:       v.GetDuration("http_timeout"),
		RunTimeout:        v.GetDuration("run_timeout"),
		InventoryTable:    v.GetString("inventory_table"),
		ShipmentTable:     v.GetString("shipment_table"),
		DomesticCountries: splitList(v.GetString("domestic_countries")),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("report_start_date", constants.DefaultReportStart)
	v.SetDefault("report_end_date", constants.DefaultReportEnd)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("run_timeout", constants.DefaultRunTimeout)
	v.SetDefault("inventory_table", constants.DefaultInventoryTable)
	v.SetDefault("shipment_table", constants.DefaultShipmentTable)
	v.SetDefault("domestic_countries", constants.DefaultDomesticCountry)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate checks that every setting the jobs need is present. All missing
// keys are reported together.
func (c *Config) Validate(jobs ...sync.Job) error {
	if len(jobs) == 0 {
		jobs = sync.Jobs()
	}

	required := map[string]string{
		EnvZenventoryAPIKey:    c.ZenventoryAPIKey,
		EnvZenventoryAPISecret: c.ZenventoryAPISecret,
		EnvAirtableAPIKey:      c.AirtableAPIKey,
		EnvAirtableBaseID:      c.AirtableBaseID,
	}
	for _, job := range jobs {
		if job == sync.JobShipments {
			required[EnvEasyPostAPIKey] = c.EasyPostAPIKey
		}
	}

	var missing []string
	for _, key := range []string{
		EnvZenventoryAPIKey,
		EnvZenventoryAPISecret,
		EnvAirtableAPIKey,
		EnvAirtableBaseID,
		EnvEasyPostAPIKey,
	} {
		value, needed := required[key]
		if needed && strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return &errors.ConfigError{
			Component: "config",
			Message:   "required settings not provided",
			Missing:   missing,
		}
	}

	if _, err := c.Window(time.Now()); err != nil {
		return err
	}
	return nil
}

// Window resolves the report window. A positive ReportDays selects the last
// ReportDays days ending at now; otherwise the fixed start and end dates apply.
func (c *Config) Window(now time.Time) (types.DateRange, error) {
	if c.ReportDays > 0 {
		return types.LastNDays(c.ReportDays, now), nil
	}
	window, err := types.ParseDateRange(constants.DateFormat, c.ReportStart, c.ReportEnd)
	if err != nil {
		return types.DateRange{}, &errors.ConfigError{
			Component: "report window",
			Message:   err.Error(),
			Err:       err,
		}
	}
	return window, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// splitList parses a comma separated setting.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
