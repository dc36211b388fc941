package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the top-level artawatch configuration.
type Config struct {
	DBPath                string   `mapstructure:"db_path" validate:"required"`
	Campuses              []string `mapstructure:"campuses" validate:"dive,required"`
	Offices               []string `mapstructure:"offices" validate:"dive,required"`
	ProblemThreshold      float64  `mapstructure:"problem_threshold" validate:"gte=0,lte=100"`
	TopServices           int      `mapstructure:"top_services"`
	LowOfficeMinResponses int      `mapstructure:"low_office_min_responses" validate:"gte=1"`
	DissatisfactionAlert  float64  `mapstructure:"dissatisfaction_alert" validate:"gte=0,lte=100"`
	Output                Output   `mapstructure:"output"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width" validate:"gte=0"`
}

func defaults() map[string]any {
	return map[string]any{
		"db_path":                  filepath.Join(DefaultConfigDir, DefaultDBName),
		"campuses":                 DefaultCampuses,
		"offices":                  DefaultOffices,
		"problem_threshold":        DefaultProblemThreshold,
		"top_services":             DefaultTopServices,
		"low_office_min_responses": DefaultLowOfficeMinResponses,
		"dissatisfaction_alert":    DefaultDissatisfactionAlert,
		"output.color":             DefaultOutput.Color,
		"output.width":             DefaultOutput.Width,
	}
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// Load reads the YAML config at cfgFile, or config.yaml in the default
// directory when cfgFile is empty. A missing file yields the defaults.
// ARTAWATCH_* environment variables override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults() {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix("artawatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile)))
		v.SetConfigType("yaml")
	} else {
		v.SetConfigFile(expandPath(cfgFile))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DBPath = expandPath(cfg.DBPath)
	if cfg.TopServices <= 0 {
		cfg.TopServices = DefaultTopServices
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first out-of-range setting by its config key.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fe := ve[0]
	key := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	if f, ok := keyNames[fe.StructField()]; ok {
		key = f
	}
	if fe.Param() != "" {
		return fmt.Errorf("config: %s must satisfy %s=%s, got %v", key, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("config: %s failed %s", key, fe.Tag())
}

var keyNames = map[string]string{
	"DBPath":                "db_path",
	"ProblemThreshold":      "problem_threshold",
	"LowOfficeMinResponses": "low_office_min_responses",
	"DissatisfactionAlert":  "dissatisfaction_alert",
	"Width":                 "output.width",
}

// DBPath returns the default full path to the SQLite database.
func DBPath() string {
	return filepath.Join(ConfigDir(), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
