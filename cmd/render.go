package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/achilleasa/raytrace/output"
	"github.com/achilleasa/raytrace/renderer"
	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/scene/reader"
	"github.com/achilleasa/raytrace/tracer"
	"github.com/achilleasa/raytrace/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Flags shared by commands that load scenes.
var SceneFlags = []cli.Flag{
	cli.Int64Flag{
		Name:   "seed",
		Value:  1,
		Usage:  "seed for sampling plane lights",
		EnvVar: "RAYTRACE_SEED",
	},
}

// Flags for the render command.
var RenderFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:   "width",
		Value:  512,
		Usage:  "frame width",
		EnvVar: "RAYTRACE_WIDTH",
	},
	cli.IntFlag{
		Name:   "height",
		Value:  512,
		Usage:  "frame height",
		EnvVar: "RAYTRACE_HEIGHT",
	},
	cli.StringFlag{
		Name:   "eye",
		Value:  "0,0,100",
		Usage:  "camera position as x,y,z; the camera always faces the origin",
		EnvVar: "RAYTRACE_EYE",
	},
	cli.StringFlag{
		Name:   "look",
		Value:  "1,0,0",
		Usage:  "camera right axis as x,y,z",
		EnvVar: "RAYTRACE_LOOK",
	},
	cli.Float64Flag{
		Name:   "scale",
		Value:  0.1,
		Usage:  "world space size of a pixel",
		EnvVar: "RAYTRACE_SCALE",
	},
	cli.IntFlag{
		Name:   "max-depth",
		Value:  22,
		Usage:  "max number of reflection/refraction bounces; 0 disables them",
		EnvVar: "RAYTRACE_MAX_DEPTH",
	},
	cli.IntFlag{
		Name:   "band",
		Value:  16,
		Usage:  "rows scheduled per round; cancellation and snapshots happen between rounds",
		EnvVar: "RAYTRACE_BAND",
	},
	cli.IntFlag{
		Name:   "workers",
		Usage:  "number of tracers; 0 uses one tracer per CPU",
		EnvVar: "RAYTRACE_WORKERS",
	},
	cli.StringFlag{
		Name:   "scheduler",
		Value:  "perfect",
		Usage:  "block scheduler (naive or perfect)",
		EnvVar: "RAYTRACE_SCHEDULER",
	},
	cli.IntFlag{
		Name:   "snapshot-every",
		Usage:  "write a snapshot of the partial frame every N bands; 0 disables snapshots",
		EnvVar: "RAYTRACE_SNAPSHOT_EVERY",
	},
	cli.IntFlag{
		Name:   "preview-width",
		Usage:  "downscale snapshots to this width; 0 keeps the frame size",
		EnvVar: "RAYTRACE_PREVIEW_WIDTH",
	},
	cli.StringFlag{
		Name:   "out, o",
		Value:  "frame.png",
		Usage:  "image filename for the rendered frame",
		EnvVar: "RAYTRACE_OUT",
	},
	cli.StringFlag{
		Name:   "s3-bucket",
		Usage:  "upload images to this S3 bucket instead of the local filesystem",
		EnvVar: "RAYTRACE_S3_BUCKET",
	},
	cli.StringFlag{
		Name:   "s3-prefix",
		Usage:  "key prefix for uploaded images",
		EnvVar: "RAYTRACE_S3_PREFIX",
	},
	cli.StringFlag{
		Name:   "s3-region",
		Value:  "us-east-1",
		Usage:  "S3 region",
		EnvVar: "RAYTRACE_S3_REGION",
	},
	cli.StringFlag{
		Name:   "s3-endpoint",
		Usage:  "endpoint for S3 compatible stores",
		EnvVar: "RAYTRACE_S3_ENDPOINT",
	},
	cli.StringFlag{
		Name:   "s3-acl",
		Usage:  "canned ACL for uploaded images",
		EnvVar: "RAYTRACE_S3_ACL",
	},
}, SceneFlags...)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	eye, err := parseVec3(ctx.String("eye"))
	if err != nil {
		return fmt.Errorf("invalid --eye value: %w", err)
	}
	look, err := parseVec3(ctx.String("look"))
	if err != nil {
		return fmt.Errorf("invalid --look value: %w", err)
	}
	scheduler, err := selectScheduler(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	// Load scene
	sc, err := reader.ReadScene(ctx.Args().First(), reader.Options{Seed: ctx.Int64("seed")})
	if err != nil {
		return err
	}

	camera, err := scene.NewCamera(ctx.Int("width"), ctx.Int("height"), eye, look, ctx.Float64("scale"))
	if err != nil {
		return err
	}
	logger.Infof("camera: %s", camera)

	sink, err := selectSink(ctx)
	if err != nil {
		return err
	}

	// Interrupting the process aborts the render between bands.
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outFile := filepath.Base(ctx.String("out"))
	var snapshotFn renderer.SnapshotFunc
	if ctx.Int("snapshot-every") > 0 {
		baseName := strings.TrimSuffix(outFile, filepath.Ext(outFile))
		snapshotFn = output.SnapshotWriter(renderCtx, sink, baseName, uint(ctx.Int("preview-width")))
	}

	opts := renderer.Options{
		FrameW:        uint32(camera.Width),
		FrameH:        uint32(camera.Height),
		MaxDepth:      ctx.Int("max-depth"),
		BandHeight:    uint32(ctx.Int("band")),
		NumTracers:    ctx.Int("workers"),
		SnapshotEvery: ctx.Int("snapshot-every"),
	}

	r, err := renderer.NewDefault(sc, camera, scheduler, opts, snapshotFn)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame", opts.FrameW, opts.FrameH)
	frame, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	if err = sink.Write(context.Background(), output.ToImage(frame), outFile); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", ctx.String("out"))

	return nil
}

// Select a local file or S3 sink depending on the supplied flags.
func selectSink(ctx *cli.Context) (output.Sink, error) {
	if ctx.String("s3-bucket") == "" {
		return &output.FileSink{Dir: filepath.Dir(ctx.String("out"))}, nil
	}

	return output.NewS3Sink(output.S3Config{
		Bucket:    ctx.String("s3-bucket"),
		Prefix:    ctx.String("s3-prefix"),
		Region:    ctx.String("s3-region"),
		Endpoint:  ctx.String("s3-endpoint"),
		ACL:       ctx.String("s3-acl"),
		AccessKey: os.Getenv("RAYTRACE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("RAYTRACE_S3_SECRET_KEY"),
	})
}

func selectScheduler(name string) (tracer.BlockScheduler, error) {
	switch name {
	case "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("unknown scheduler %q", name)
}

// Parse a vector in x,y,z format.
func parseVec3(val string) (types.Vec3, error) {
	var v types.Vec3

	tokens := strings.Split(val, ",")
	if len(tokens) != 3 {
		return v, fmt.Errorf("expected 3 comma separated values; got %q", val)
	}
	for idx, token := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil {
			return v, fmt.Errorf("could not parse %q as a number", token)
		}
		v[idx] = f
	}
	return v, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Rows", "% of frame", "Primary rays", "Shadow rays", "Secondary rays", "Render time"})
	var primary, shadow, secondary uint64
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.PrimaryRays),
			fmt.Sprintf("%d", stat.ShadowRays),
			fmt.Sprintf("%d", stat.SecondaryRays),
			stat.RenderTime.String(),
		})
		primary += stat.PrimaryRays
		shadow += stat.ShadowRays
		secondary += stat.SecondaryRays
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d bands", stats.Bands),
		fmt.Sprintf("%d snapshots", stats.Snapshots),
		fmt.Sprintf("%d", primary),
		fmt.Sprintf("%d", shadow),
		fmt.Sprintf("%d", secondary),
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
