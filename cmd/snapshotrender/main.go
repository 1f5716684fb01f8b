// Snapshot render tool - draws a saved snapshot to a PNG file for inspection.
//
// Usage: go run ./cmd/snapshotrender -snapshot snapshots/snapshot_000123.json -out frame.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/camera"
	"github.com/pthm-cable/fluid/renderer"
	"github.com/pthm-cable/fluid/telemetry"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "Path to snapshot JSON")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	width := flag.Int("width", 1000, "Render width")
	height := flag.Int("height", 800, "Render height")
	grid := flag.Bool("grid", false, "Draw the spatial grid")
	speed := flag.Float64("color-by-speed", 0, "Recolor particles by speed up to this value (0 = keep stored colors)")
	flag.Parse()

	if *snapshotPath == "" {
		fmt.Fprintln(os.Stderr, "-snapshot is required")
		os.Exit(2)
	}

	snap, err := telemetry.LoadSnapshot(*snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load snapshot: %v\n", err)
		os.Exit(1)
	}
	particles := snap.RestoredParticles()
	if *speed > 0 {
		for i := range particles {
			particles[i].Color = renderer.SpeedToColor(particles[i].Speed(), *speed)
		}
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Snapshot Render")
	defer rl.CloseWindow()

	cam := camera.New(0, 0, float32(*width), float32(*height), snap.World.Width, snap.World.Height)
	pr := renderer.NewParticleRenderer(cam)

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	pr.DrawWorld()
	if *grid {
		pr.DrawGrid(snap.Cols, snap.Rows)
	}
	pr.Draw(particles, snap.Params.ParticleRadius)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Snapshot tick %d (%d particles) rendered to: %s (%dx%d)\n",
			snap.Tick, len(particles), *outPath, *width, *height)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
