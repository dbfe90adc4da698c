package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	domainConfig "github.com/gea-gov/gea/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig holds the CLI flag pointing at the optional TOML settings file
type AppConfig struct {
	path string
}

func (x *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML settings file ([catalog], [analytics], [dashboard])",
			Sources:     cli.EnvVars("GEA_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured settings file path
func (x *AppConfig) Path() string {
	return x.path
}

// Configure returns the built-in defaults, overridden by the settings file when set
func (x *AppConfig) Configure() (*domainConfig.AppConfig, error) {
	if x.path == "" {
		return domainConfig.Default(), nil
	}
	return LoadAppConfig(x.path)
}

type catalogSection struct {
	DefaultResolutionDays int    `toml:"default_resolution_days"`
	DefaultDepartment     string `toml:"default_department"`
	DefaultDivision       string `toml:"default_division"`
}

type analyticsSection struct {
	ManualChannels      []string `toml:"manual_channels"`
	TopSecretariats     int      `toml:"top_secretariats"`
	TopOperatingSystems int      `toml:"top_operating_systems"`
}

type dashboardSection struct {
	CriticalWindowDays int `toml:"critical_window_days"`
	CriticalLimit      int `toml:"critical_limit"`
	RecentLimit        int `toml:"recent_limit"`
	TopSecretariats    int `toml:"top_secretariats"`
}

type fileConfig struct {
	Catalog   catalogSection   `toml:"catalog"`
	Analytics analyticsSection `toml:"analytics"`
	Dashboard dashboardSection `toml:"dashboard"`
}

func fileConfigOf(c *domainConfig.AppConfig) fileConfig {
	return fileConfig{
		Catalog: catalogSection{
			DefaultResolutionDays: c.Catalog.DefaultResolutionDays,
			DefaultDepartment:     c.Catalog.DefaultDepartment,
			DefaultDivision:       c.Catalog.DefaultDivision,
		},
		Analytics: analyticsSection{
			TopSecretariats:     c.Analytics.TopSecretariats,
			TopOperatingSystems: c.Analytics.TopOperatingSystems,
		},
		Dashboard: dashboardSection(c.Dashboard),
	}
}

// ParseAppConfig decodes TOML settings on top of the defaults and validates the result.
// Keys absent from data keep their default values.
func ParseAppConfig(data []byte) (*domainConfig.AppConfig, error) {
	cfg := domainConfig.Default()
	file := fileConfigOf(cfg)
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML settings", goerr.V("cause", err.Error()))
	}

	cfg.Catalog = domainConfig.CatalogConfig{
		DefaultResolutionDays: file.Catalog.DefaultResolutionDays,
		DefaultDepartment:     strings.TrimSpace(file.Catalog.DefaultDepartment),
		DefaultDivision:       strings.TrimSpace(file.Catalog.DefaultDivision),
	}
	if file.Analytics.ManualChannels != nil {
		cfg.Analytics.ManualChannels = file.Analytics.ManualChannels
	}
	cfg.Analytics.TopSecretariats = file.Analytics.TopSecretariats
	cfg.Analytics.TopOperatingSystems = file.Analytics.TopOperatingSystems
	cfg.Dashboard = domainConfig.DashboardConfig(file.Dashboard)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAppConfig reads and parses the TOML settings file at path
func LoadAppConfig(path string) (*domainConfig.AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "settings file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read settings file", goerr.V(ConfigPathKey, path))
	}

	cfg, err := ParseAppConfig(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings", goerr.V(ConfigPathKey, path))
	}
	return cfg, nil
}

// Validate checks the settings for values the use cases cannot work with
func Validate(cfg *domainConfig.AppConfig) error {
	invalid := func(setting string, value any) error {
		return goerr.Wrap(ErrInvalidConfig, "invalid setting", goerr.V(SettingKey, setting), goerr.V("value", value))
	}

	if cfg.Catalog.DefaultResolutionDays <= 0 {
		return invalid("catalog.default_resolution_days", cfg.Catalog.DefaultResolutionDays)
	}
	if cfg.Catalog.DefaultDepartment == "" {
		return invalid("catalog.default_department", cfg.Catalog.DefaultDepartment)
	}
	if cfg.Catalog.DefaultDivision == "" {
		return invalid("catalog.default_division", cfg.Catalog.DefaultDivision)
	}
	for _, ch := range cfg.Analytics.ManualChannels {
		if strings.TrimSpace(ch) == "" {
			return invalid("analytics.manual_channels", ch)
		}
	}
	if cfg.Analytics.TopSecretariats <= 0 {
		return invalid("analytics.top_secretariats", cfg.Analytics.TopSecretariats)
	}
	if cfg.Analytics.TopOperatingSystems <= 0 {
		return invalid("analytics.top_operating_systems", cfg.Analytics.TopOperatingSystems)
	}
	if cfg.Dashboard.CriticalWindowDays < 0 {
		return invalid("dashboard.critical_window_days", cfg.Dashboard.CriticalWindowDays)
	}
	if cfg.Dashboard.CriticalLimit <= 0 {
		return invalid("dashboard.critical_limit", cfg.Dashboard.CriticalLimit)
	}
	if cfg.Dashboard.RecentLimit <= 0 {
		return invalid("dashboard.recent_limit", cfg.Dashboard.RecentLimit)
	}
	if cfg.Dashboard.TopSecretariats <= 0 {
		return invalid("dashboard.top_secretariats", cfg.Dashboard.TopSecretariats)
	}
	return nil
}
