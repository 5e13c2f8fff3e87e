package polling

import (
	"fmt"
	"time"
)

// Strategy selects the delay growth model between attempts.
type Strategy string

const (
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
)

func (s Strategy) String() string {
	return string(s)
}

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyLinear, StrategyExponential:
		return true
	default:
		return false
	}
}

// Option bounds. Violating any of them fails Client.Get synchronously,
// before any network activity.
const (
	MaxRetries        = 10
	MaxInterval       = 60 * time.Second
	MaxUpdateInterval = 10 * time.Second
)

// Defaults applied by DefaultOptions.
const (
	DefaultRetries        = 3
	DefaultInterval       = 3 * time.Second
	DefaultUpdateInterval = 1 * time.Second
)

// Options configures one polling operation.
type Options struct {
	Retries                 int           `yaml:"retries"`
	Interval                time.Duration `yaml:"interval"`
	Strategy                Strategy      `yaml:"strategy"`
	UpdateInterval          time.Duration `yaml:"update_interval"`
	RetryOnServerFailure    bool          `yaml:"retry_on_server_failure"`
	RetryOnUnexpectedFormat bool          `yaml:"retry_on_unexpected_format"`
	LiveUpdates             bool          `yaml:"live_updates"`
	NoUpdates               bool          `yaml:"no_updates"`
}

// DefaultOptions returns the documented defaults. Callers override
// individual fields before passing the result to Get.
func DefaultOptions() Options {
	return Options{
		Retries:        DefaultRetries,
		Interval:       DefaultInterval,
		Strategy:       StrategyLinear,
		UpdateInterval: DefaultUpdateInterval,
		LiveUpdates:    true,
	}
}

// Validate checks every bound. It returns the first violation found.
func (o Options) Validate() error {
	if o.Retries < 0 || o.Retries > MaxRetries {
		return fmt.Errorf("retries must be between 0 and %d, got %d", MaxRetries, o.Retries)
	}
	if o.Interval < 0 || o.Interval > MaxInterval {
		return fmt.Errorf("interval must be between 0 and %s, got %s", MaxInterval, o.Interval)
	}
	if o.UpdateInterval < 0 || o.UpdateInterval > MaxUpdateInterval {
		return fmt.Errorf("update interval must be between 0 and %s, got %s", MaxUpdateInterval, o.UpdateInterval)
	}
	if !o.Strategy.IsValid() {
		return fmt.Errorf("invalid strategy %q", o.Strategy)
	}
	return nil
}
