package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/raytrace/cmd"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

func main() {
	// Settings in a .env file act as defaults for RAYTRACE_* flags.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "could not load .env file: %s\n", err)
	}

	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raytrace"
	app.Usage = "render scenes using recursive ray tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning or error)",
			EnvVar: "RAYTRACE_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a text scene definition, expand its plane lights into point lights and
write the resulting scene to a zip archive which can be supplied as an argument
to the render command.`,
			ArgsUsage: "scene_file1.scene scene_file2.scene ...",
			Flags:     cmd.SceneFlags,
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "display scene information",
			ArgsUsage: "scene_file",
			Flags:     cmd.SceneFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "render",
			Usage: "render single frame",
			Description: `
Render a single frame of a text (.scene, .txt) or compiled (.zip) scene. Scene
files may be local paths or http(s) URLs. Interrupting the process aborts the
render.`,
			ArgsUsage: "scene_file",
			Flags:     cmd.RenderFlags,
			Action:    cmd.RenderFrame,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
