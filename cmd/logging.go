package cmd

import (
	"fmt"

	"github.com/achilleasa/raytrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("raytrace")

// Apply the global logging flags. The -v and -vv flags take precedence
// over --log-level.
func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("invalid --log-level value: %w", err)
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return nil
}
