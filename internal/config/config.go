package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrBaseURLRequired is returned when BASE_URL is unset. It is checked before
// anything touches the network.
var ErrBaseURLRequired = errors.New("BASE_URL is required")

// Default upstream feed locations.
const (
	DefaultConfigFeedURL = "https://eyes.nasa.gov/apps/dsn-now/config.xml"
	DefaultStatusFeedURL = "https://eyes.nasa.gov/dsn/data/dsn.xml"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	BaseURL         string
	ConfigFeedURL   string
	StatusFeedURL   string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Static site output.
	OutputDir string
	ImagesDir string

	// Pipeline policy.
	ExcludeZeroPowerUplinks bool
	DedupeSignals           bool

	// Serve mode snapshot reuse.
	SnapshotTTL      time.Duration
	RefreshRateLimit float64

	// Snapshot publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	TracingEnabled     bool
	TracingExporter    string
	TracingServiceName string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dsn_config_url", DefaultConfigFeedURL)
	v.SetDefault("dsn_status_url", DefaultStatusFeedURL)
	v.SetDefault("http_addr", ":3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("output_dir", "_site")
	v.SetDefault("images_dir", "images")

	v.SetDefault("exclude_zero_power_uplinks", "true")
	v.SetDefault("dedupe_signals", "true")

	v.SetDefault("snapshot_ttl", "1h")
	v.SetDefault("refresh_rate_limit", "1")

	v.SetDefault("kafka_enabled", "false")
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_topic", "dsn-snapshots")

	v.SetDefault("tracing_enabled", "false")
	v.SetDefault("tracing_exporter", "stdout")
	v.SetDefault("tracing_service_name", "dsn-status")
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	baseURL := strings.TrimSpace(v.GetString("base_url"))
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	shutdownTimeout, err := parsePositiveDuration(v, "shutdown_timeout")
	if err != nil {
		return nil, err
	}
	snapshotTTL, err := parsePositiveDuration(v, "snapshot_ttl")
	if err != nil {
		return nil, err
	}

	refreshRate, err := strconv.ParseFloat(v.GetString("refresh_rate_limit"), 64)
	if err != nil || refreshRate <= 0 {
		return nil, errors.New("invalid REFRESH_RATE_LIMIT")
	}

	excludeZero, err := parseBool(v, "exclude_zero_power_uplinks")
	if err != nil {
		return nil, err
	}
	dedupe, err := parseBool(v, "dedupe_signals")
	if err != nil {
		return nil, err
	}
	kafkaEnabled, err := parseBool(v, "kafka_enabled")
	if err != nil {
		return nil, err
	}
	tracingEnabled, err := parseBool(v, "tracing_enabled")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:         baseURL,
		ConfigFeedURL:   v.GetString("dsn_config_url"),
		StatusFeedURL:   v.GetString("dsn_status_url"),
		HTTPAddr:        v.GetString("http_addr"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ShutdownTimeout: shutdownTimeout,

		OutputDir: v.GetString("output_dir"),
		ImagesDir: v.GetString("images_dir"),

		ExcludeZeroPowerUplinks: excludeZero,
		DedupeSignals:           dedupe,

		SnapshotTTL:      snapshotTTL,
		RefreshRateLimit: refreshRate,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(v.GetString("kafka_brokers")),
		KafkaTopic:   v.GetString("kafka_topic"),

		TracingEnabled:     tracingEnabled,
		TracingExporter:    strings.ToLower(v.GetString("tracing_exporter")),
		TracingServiceName: v.GetString("tracing_service_name"),
	}

	if cfg.ConfigFeedURL == "" {
		return nil, errors.New("DSN_CONFIG_URL is required")
	}
	if cfg.StatusFeedURL == "" {
		return nil, errors.New("DSN_STATUS_URL is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envName(key string) string {
	return strings.ToUpper(key)
}

func parsePositiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", envName(key))
	}
	return d, nil
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	b, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", envName(key), err)
	}
	return b, nil
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
