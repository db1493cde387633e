package settings

import (
	"regexp"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Settings are read from SYSEXCONV_* environment variables.
type Settings struct {
	InputPath    string `envconfig:"INPUT" default:"Chocotone/delay_time_sysex.h"`
	OutputPath   string `envconfig:"OUTPUT" default:"delay_sysex.js"`
	Container    string `envconfig:"CONTAINER" default:"DELAY_TIME_LOOKUP"`
	LookupHelper bool   `envconfig:"LOOKUP_HELPER" default:"false"`
	RejectEmpty  bool   `envconfig:"REJECT_EMPTY" default:"false"`
	Watch        bool   `envconfig:"WATCH" default:"false"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	// How often metrics are flushed while watching.
	FlushInterval time.Duration `envconfig:"FLUSH_INTERVAL" default:"10s"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func NewSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("sysexconv", &s); err != nil {
		return s, errors.Wrap(err, "settings")
	}
	if !identifierPattern.MatchString(s.Container) {
		return s, errors.Errorf("settings: container %q is not a valid JavaScript identifier", s.Container)
	}
	if s.FlushInterval <= 0 {
		return s, errors.Errorf("settings: flush interval must be positive, got %s", s.FlushInterval)
	}
	return s, nil
}

// ApplyArgs overrides the input and output paths with positional arguments, when given.
func (s *Settings) ApplyArgs(args []string) {
	if len(args) > 0 && args[0] != "" {
		s.InputPath = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		s.OutputPath = args[1]
	}
}
