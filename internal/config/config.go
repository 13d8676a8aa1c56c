// Package config defines the data structures related to configuration and
// includes functions for loading the config and deriving the static tables
// from it.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iwvelando/matchday-dashboard/internal/dataset"
	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/risk"
	"github.com/iwvelando/matchday-dashboard/pkg/constants"
	"github.com/iwvelando/matchday-dashboard/pkg/datetime"
	"github.com/iwvelando/matchday-dashboard/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override config keys, e.g.
// MATCHDAY_RESOURCES_RISK_PATH.
const EnvPrefix = "MATCHDAY"

// Configuration holds all configuration for matchday-dashboard.
type Configuration struct {
	Resources Resources       `yaml:"resources"`
	Risk      RiskConfig      `yaml:"risk"`
	Fixtures  []FixtureConfig `yaml:"fixtures,omitempty"`
	Spend     []SpendConfig   `yaml:"spend,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Resources names the two workbooks read at startup.
type Resources struct {
	Risk     ResourceConfig `yaml:"risk"`
	Security ResourceConfig `yaml:"security"`
}

// ResourceConfig locates one sheet. Relative paths are resolved against the
// directory of the config file.
type ResourceConfig struct {
	Path      string `yaml:"path"`
	Sheet     string `yaml:"sheet"`
	KeyColumn string `yaml:"keyColumn,omitempty"`
}

// RiskConfig holds risk summary options.
type RiskConfig struct {
	Policy string `yaml:"policy,omitempty"` // skip, reject
}

// FixtureConfig overrides one entry of the compiled-in schedule.
type FixtureConfig struct {
	Number   int    `yaml:"number,omitempty"`
	Date     string `yaml:"date"`
	Opponent string `yaml:"opponent"`
}

// SpendConfig overrides one entry of the compiled-in spend table.
type SpendConfig struct {
	Team   string  `yaml:"team"`
	Amount float64 `yaml:"amount"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("resources.risk.path", constants.DefaultRiskFile)
	v.SetDefault("resources.risk.sheet", constants.DefaultRiskSheet)
	v.SetDefault("resources.risk.keyColumn", constants.DefaultKeyColumn)
	v.SetDefault("resources.security.path", constants.DefaultSecurityFile)
	v.SetDefault("resources.security.sheet", constants.DefaultSecuritySheet)
	v.SetDefault("resources.security.keyColumn", constants.DefaultKeyColumn)
	v.SetDefault("risk.policy", constants.RatingPolicySkip)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}
	configuration.resolvePaths(filepath.Dir(configPath))
	return configuration, nil
}

// LoadConfigurationFromReader loads YAML configuration from r. Relative
// resource paths stay relative to the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := validation.ValidateRatingPolicy(configuration.Risk.Policy); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (conf *Configuration) resolvePaths(base string) {
	for _, res := range []*ResourceConfig{&conf.Resources.Risk, &conf.Resources.Security} {
		if res.Path != "" && !filepath.IsAbs(res.Path) {
			res.Path = filepath.Join(base, res.Path)
		}
	}
}

// RiskSource returns where the risk ratings are read from.
func (conf *Configuration) RiskSource() dataset.Source {
	return conf.Resources.Risk.source()
}

// SecuritySource returns where the security costs are read from.
func (conf *Configuration) SecuritySource() dataset.Source {
	return conf.Resources.Security.source()
}

func (res ResourceConfig) source() dataset.Source {
	return dataset.Source{Path: res.Path, Sheet: res.Sheet, KeyColumn: res.KeyColumn}
}

// RatingPolicy returns the invalid-rating policy.
func (conf *Configuration) RatingPolicy() risk.Policy {
	return risk.Policy(conf.Risk.Policy)
}

// Schedule builds the fixture schedule, falling back to the compiled-in one
// when the config has no fixtures. Fixtures without a number are numbered by
// their position.
func (conf *Configuration) Schedule() (*fixture.Schedule, error) {
	if len(conf.Fixtures) == 0 {
		return fixture.DefaultSchedule(), nil
	}

	matches := make([]fixture.Match, 0, len(conf.Fixtures))
	for i, f := range conf.Fixtures {
		date, err := datetime.ParseFixtureDate(f.Date)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i+1, err)
		}
		number := f.Number
		if number == 0 {
			number = i + 1
		}
		matches = append(matches, fixture.Match{Number: number, Date: date, Opponent: strings.TrimSpace(f.Opponent)})
	}
	return fixture.NewSchedule(matches)
}

// SpendTable returns the logistics spend table, falling back to the
// compiled-in one when the config has none.
func (conf *Configuration) SpendTable() []fixture.Spend {
	if len(conf.Spend) == 0 {
		return fixture.DefaultSpend()
	}
	spend := make([]fixture.Spend, len(conf.Spend))
	for i, s := range conf.Spend {
		spend[i] = fixture.Spend{Team: strings.TrimSpace(s.Team), AmountMillions: s.Amount}
	}
	return spend
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	schedule, err := conf.Schedule()
	if err != nil {
		return []string{fmt.Sprintf("fixture list is invalid: %v", err)}
	}

	validator := validation.ConfigValidator{}
	for _, match := range schedule.Matches() {
		validator.Fixtures = append(validator.Fixtures, validation.FixtureConfig{
			Number:   match.Number,
			Date:     match.FormattedDate(),
			Opponent: match.Opponent,
		})
	}
	for _, spend := range conf.SpendTable() {
		validator.Spend = append(validator.Spend, validation.SpendConfig{
			Team:   spend.Team,
			Amount: spend.AmountMillions,
		})
	}
	warnings = append(warnings, validator.ValidateAll()...)

	if conf.Resources.Risk.Path != "" && conf.Resources.Risk.Path == conf.Resources.Security.Path &&
		conf.Resources.Risk.Sheet == conf.Resources.Security.Sheet {
		warnings = append(warnings, "risk and security resources point at the same sheet")
	}

	return warnings
}
