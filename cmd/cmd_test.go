package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/types"
	"github.com/disintegration/imaging"
	"github.com/urfave/cli"
)

const testScene = `
Material {
	ambient 0.2 0.2 0.2
	diffuse 0.7 0.1 0.1
	specular 0.4 0.4 0.4
	shininess 20
	reflection 0.2
}
Sphere { center 0 0 0 radius 3 material 0 }
Ambient { color 0.3 0.3 0.3 }
PointLight { position 10 10 20 intensity 1 1 1 }
PlaneLight { start -2 10 -2 edge1 4 0 0 edge2 0 0 4 intensity 0.5 0.5 0.5 }
`

func testApp() *cli.App {
	app := cli.NewApp()
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v"},
		cli.BoolFlag{Name: "vv"},
		cli.StringFlag{Name: "log-level"},
	}
	app.Commands = []cli.Command{
		{Name: "compile", Flags: SceneFlags, Action: CompileScene},
		{Name: "info", Flags: SceneFlags, Action: ShowSceneInfo},
		{Name: "render", Flags: RenderFlags, Action: RenderFrame},
	}
	return app
}

func TestParseVec3(t *testing.T) {
	type spec struct {
		in     string
		exp    types.Vec3
		expErr bool
	}
	specs := []spec{
		{"1,2,3", types.XYZ(1, 2, 3), false},
		{" -1.5, 0 ,2e2", types.XYZ(-1.5, 0, 200), false},
		{"1,2", types.Vec3{}, true},
		{"1,two,3", types.Vec3{}, true},
	}

	for index, s := range specs {
		v, err := parseVec3(s.in)
		if (err != nil) != s.expErr {
			t.Fatalf("[spec %d] unexpected error state: %v", index, err)
		}
		if !s.expErr && v != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, v)
		}
	}
}

func TestSelectScheduler(t *testing.T) {
	for _, name := range []string{"naive", "perfect"} {
		if _, err := selectScheduler(name); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := selectScheduler("random"); err == nil {
		t.Fatal("expected an error for an unknown scheduler")
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "ball.scene")
	if err := os.WriteFile(sceneFile, []byte(testScene), 0644); err != nil {
		t.Fatal(err)
	}

	// Compile and render the compiled scene.
	if err := testApp().Run([]string{"raytrace", "compile", sceneFile}); err != nil {
		t.Fatal(err)
	}
	zipFile := filepath.Join(dir, "ball.zip")
	if _, err := os.Stat(zipFile); err != nil {
		t.Fatalf("expected compiled scene: %v", err)
	}
	if err := testApp().Run([]string{"raytrace", "info", zipFile}); err != nil {
		t.Fatal(err)
	}

	outFile := filepath.Join(dir, "out", "ball.png")
	err := testApp().Run([]string{
		"raytrace", "render",
		"--width", "16",
		"--height", "12",
		"--eye", "0,0,50",
		"--scale", "0.5",
		"--band", "4",
		"--workers", "2",
		"--snapshot-every", "1",
		"--preview-width", "8",
		"--out", outFile,
		zipFile,
	})
	if err != nil {
		t.Fatal(err)
	}

	img, err := imaging.Open(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Fatalf("expected 16x12 image; got %v", img.Bounds())
	}

	// The first band is always queued as the snapshot writer starts idle.
	snap, err := imaging.Open(filepath.Join(dir, "out", "ball-snapshot-001.png"))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Bounds().Dx() != 8 {
		t.Fatalf("expected 8 pixel wide snapshot; got %v", snap.Bounds())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "ball.scene")
	if err := os.WriteFile(sceneFile, []byte(testScene), 0644); err != nil {
		t.Fatal(err)
	}

	specs := [][]string{
		{"raytrace", "render"},
		{"raytrace", "render", "--eye", "0,0", sceneFile},
		{"raytrace", "render", "--look", "x,0,0", sceneFile},
		{"raytrace", "render", "--scheduler", "random", sceneFile},
		{"raytrace", "render", "--scale", "0", sceneFile},
		{"raytrace", "render", filepath.Join(dir, "missing.scene")},
		{"raytrace", "info"},
		{"raytrace", "compile"},
	}

	for index, args := range specs {
		if err := testApp().Run(args); err == nil {
			t.Fatalf("[spec %d] expected %v to fail", index, args)
		}
	}
}

func TestLogLevelFlag(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "ball.scene")
	if err := os.WriteFile(sceneFile, []byte(testScene), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log.SetSink(&buf)
	defer func() {
		log.SetSink(os.Stdout)
		log.SetLevel(log.Notice)
	}()

	if err := testApp().Run([]string{"raytrace", "--log-level", "loud", "info", sceneFile}); err == nil {
		t.Fatal("expected an unknown log level to be rejected")
	}

	if err := testApp().Run([]string{"raytrace", "--log-level", "error", "info", sceneFile}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected notices to be suppressed at error level; got:\n%s", buf.String())
	}

	if err := testApp().Run([]string{"raytrace", "--log-level", "notice", "info", sceneFile}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected notices to be logged at notice level")
	}
}
