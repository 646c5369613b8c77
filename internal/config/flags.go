package config

import (
	"flag"
	"strings"

	"github.com/Faultbox/objbuf/internal/logger"
	"github.com/Faultbox/objbuf/pkg/encoding"
)

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagLogLevel      = flag.String("log-level", "", "Log level: "+strings.Join(logger.Levels(), ", "))
	flagLogFile       = flag.String("log-file", "", "Also write diagnostics to this rotated log file")
	flagEncoding      = flag.String("encoding", "", "Input text encoding: "+strings.Join(encoding.Names(), ", "))
	flagTangentPolicy = flag.String("tangent-policy", "", "Non-finite tangents: fallback or passthrough")
	flagQuiet         = flag.Bool("quiet", false, "Suppress passthrough lines and the summary on stdout")
	flagWriteConfig   = flag.String("write-config", "", "Write the effective config to this path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config destination, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagEncoding != "" {
		cfg.Input.Encoding = *flagEncoding
	}
	if *flagTangentPolicy != "" {
		cfg.Build.TangentPolicy = *flagTangentPolicy
	}
	if *flagQuiet {
		cfg.Output.Quiet = true
	}
}
