// objbuf converts a Wavefront OBJ mesh into a flat JSON vertex buffer of
// interleaved position, normal, tangent and uv floats.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/objbuf/internal/config"
	"github.com/Faultbox/objbuf/internal/convert"
	"github.com/Faultbox/objbuf/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			return 1
		}
		if len(config.Args()) == 0 {
			return 0
		}
	}

	args := config.Args()
	if len(args) != 2 {
		printUsage()
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()
	logger.Debug("effective config", zap.Any("config", cfg))

	stdout := io.Writer(os.Stdout)
	if cfg.Output.Quiet {
		stdout = io.Discard
	}

	logger.Info("converting",
		zap.String("input", args[0]),
		zap.String("output", args[1]))
	res, err := convert.Run(convert.Options{
		InputPath:     args[0],
		OutputPath:    args[1],
		Encoding:      cfg.Input.Encoding,
		TangentPolicy: cfg.TangentPolicy(),
		Logger:        logger.Named("objbuf"),
		Passthrough:   stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	convert.PrintSummary(stdout, res)
	return 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `objbuf - OBJ to interleaved vertex buffer converter

Usage:
  %s [flags] <In>.obj <Out>.json

Output is a JSON array of 11 floats per vertex:
  position.xyz normal.xyz tangent.xyz uv.xy

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}
