package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/pelletier/go-toml/v2"
)

const (
	maxDays       = 3660
	dateLayout    = "2006-01-02"
	defaultTopic  = "cleaned-weather-observations"
	defaultWindow = 7
)

// Config holds all run settings. Values come from defaults, then an optional
// TOML file, then environment variables.
type Config struct {
	Days      int
	StartDate time.Time
	Seed      uint64
	InputCSV  string

	RawCSVPath     string
	CleanedCSVPath string
	PlotsDir       string
	ReportPath     string
	RollingWindow  int

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	KafkaBrokers    []string
	KafkaTopic      string
	ArchiveDBPath   string
	SinkTimeout     time.Duration
	SinkMaxAttempts int
}

// fileConfig mirrors Config in the shape the TOML file uses. Durations and
// dates are strings there.
type fileConfig struct {
	Days      int    `toml:"days"`
	StartDate string `toml:"start_date"`
	Seed      uint64 `toml:"seed"`
	InputCSV  string `toml:"input_csv"`

	RawCSVPath     string `toml:"raw_csv_path"`
	CleanedCSVPath string `toml:"cleaned_csv_path"`
	PlotsDir       string `toml:"plots_dir"`
	ReportPath     string `toml:"report_path"`
	RollingWindow  int    `toml:"rolling_window"`

	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	MetricsTextfile string `toml:"metrics_textfile"`

	KafkaBrokers    []string `toml:"kafka_brokers"`
	KafkaTopic      string   `toml:"kafka_topic"`
	ArchiveDBPath   string   `toml:"archive_db_path"`
	SinkTimeout     string   `toml:"sink_timeout"`
	SinkMaxAttempts int      `toml:"sink_max_attempts"`
}

func defaults() fileConfig {
	return fileConfig{
		Days:            365,
		StartDate:       "2024-01-01",
		RawCSVPath:      "mock_raw_data.csv",
		CleanedCSVPath:  "cleaned_weather.csv",
		PlotsDir:        "plots",
		ReportPath:      "final_report_summary.txt",
		RollingWindow:   defaultWindow,
		LogLevel:        "info",
		KafkaTopic:      defaultTopic,
		SinkTimeout:     "10s",
		SinkMaxAttempts: 3,
	}
}

// Load builds a Config. An empty path skips the TOML file.
func Load(path string) (*Config, error) {
	fc := defaults()
	if path != "" {
		if err := decodeFile(path, &fc); err != nil {
			return nil, err
		}
	}

	days, err := envInt("WEATHER_DAYS", fc.Days)
	if err != nil {
		return nil, err
	}
	window, err := envInt("ROLLING_WINDOW", fc.RollingWindow)
	if err != nil {
		return nil, err
	}
	attempts, err := envInt("SINK_MAX_ATTEMPTS", fc.SinkMaxAttempts)
	if err != nil {
		return nil, err
	}

	seedStr := sharedcfg.EnvOrDefault("WEATHER_SEED", strconv.FormatUint(fc.Seed, 10))
	seed, err := strconv.ParseUint(seedStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_SEED %q: %w", seedStr, err)
	}

	startStr := sharedcfg.EnvOrDefault("WEATHER_START_DATE", fc.StartDate)
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_START_DATE %q: %w", startStr, err)
	}

	timeoutStr := sharedcfg.EnvOrDefault("SINK_TIMEOUT", fc.SinkTimeout)
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SINK_TIMEOUT %q: %w", timeoutStr, err)
	}

	cfg := &Config{
		Days:      days,
		StartDate: start,
		Seed:      seed,
		InputCSV:  sharedcfg.EnvOrDefault("WEATHER_INPUT_CSV", fc.InputCSV),

		RawCSVPath:     sharedcfg.EnvOrDefault("RAW_CSV_PATH", fc.RawCSVPath),
		CleanedCSVPath: sharedcfg.EnvOrDefault("CLEANED_CSV_PATH", fc.CleanedCSVPath),
		PlotsDir:       sharedcfg.EnvOrDefault("PLOTS_DIR", fc.PlotsDir),
		ReportPath:     sharedcfg.EnvOrDefault("REPORT_PATH", fc.ReportPath),
		RollingWindow:  window,

		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", fc.LogLevel)),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", fc.LogFormat)),
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", fc.MetricsTextfile),

		KafkaBrokers:    parseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", strings.Join(fc.KafkaBrokers, ","))),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", fc.KafkaTopic),
		ArchiveDBPath:   sharedcfg.EnvOrDefault("ARCHIVE_DB_PATH", fc.ArchiveDBPath),
		SinkTimeout:     timeout,
		SinkMaxAttempts: attempts,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Generating reports whether the run synthesizes data instead of reading a CSV.
func (c *Config) Generating() bool { return c.InputCSV == "" }

// KafkaEnabled reports whether cleaned rows are published.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// ArchiveEnabled reports whether runs are archived to SQLite.
func (c *Config) ArchiveEnabled() bool { return c.ArchiveDBPath != "" }

func (c *Config) validate() error {
	if c.Days < 1 || c.Days > maxDays {
		return fmt.Errorf("WEATHER_DAYS must be between 1 and %d, got %d", maxDays, c.Days)
	}
	if c.RollingWindow < 1 || c.RollingWindow%2 == 0 {
		return fmt.Errorf("ROLLING_WINDOW must be a positive odd number, got %d", c.RollingWindow)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.CleanedCSVPath == "" || c.PlotsDir == "" || c.ReportPath == "" {
		return errors.New("CLEANED_CSV_PATH, PLOTS_DIR and REPORT_PATH are required")
	}
	if c.Generating() && c.RawCSVPath == "" {
		return errors.New("RAW_CSV_PATH is required when generating data")
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.SinkTimeout <= 0 {
		return errors.New("SINK_TIMEOUT must be positive")
	}
	if c.SinkMaxAttempts < 1 {
		return errors.New("SINK_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func decodeFile(path string, fc *fileConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(s)
}
