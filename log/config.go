package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config describes per-logger filtering loaded from a YAML file.
// Filters uses zapfilter rule syntax, for example
// "debug+:collect.* info+:*" to get debug output for the collectors only.
type Config struct {
	DefaultLevel string `yaml:"defaultLevel"`
	Filters      string `yaml:"filters"`
}

func LoadConfig(fileName string) (*Config, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse log config: %w", err)
	}
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = "info"
	}
	return cfg, nil
}

// NewFiltered creates a JSON logger whose output is controlled by the
// zapfilter rules of cfg. Entries not matched by any filter rule fall back
// to the default level.
func NewFiltered(writer io.Writer, cfg *Config, opts ...Option) (*Logger, error) {
	if writer == nil {
		writer = os.Stderr
	}
	defLevel, err := ParseLevel(cfg.DefaultLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid default level %q: %w", cfg.DefaultLevel, err)
	}
	rules := fmt.Sprintf("%s+:*", cfg.DefaultLevel)
	if cfg.Filters != "" {
		rules = fmt.Sprintf("%s %s", cfg.Filters, rules)
	}
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, fmt.Errorf("invalid filter rules %q: %w", cfg.Filters, err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(writer),
		DebugLevel,
	)
	return &Logger{
		l:     zap.New(zapfilter.NewFilteringCore(core, filter), opts...),
		level: defLevel,
	}, nil
}
