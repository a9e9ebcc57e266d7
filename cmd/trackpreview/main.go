// Command trackpreview renders the tracks and arcs of an EasyEDA PCB file to PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"pcb-roundtracks/internal/board"
	"pcb-roundtracks/internal/config"
	"pcb-roundtracks/internal/render"
	"pcb-roundtracks/internal/smooth"
)

func main() {
	out := flag.String("o", "", "Output PNG path (default <board>.png)")
	scale := flag.Float64("scale", render.DefaultRenderOptions().Scale, "Pixels per board unit (10 mil)")
	maxSize := flag.Int("maxSize", render.DefaultRenderOptions().MaxSize, "Largest image side in pixels")
	doSmooth := flag.Bool("smooth", false, "Smooth the board with the saved settings before rendering")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: trackpreview [-o out.png] [-scale 4] [-maxSize 4096] [-smooth] <board.json>")
		os.Exit(1)
	}
	input := flag.Arg(0)
	if *out == "" {
		*out = strings.TrimSuffix(input, ".json") + ".png"
	}

	b, err := board.Load(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load board: %v\n", err)
		os.Exit(1)
	}

	if *doSmooth {
		settings, err := config.LoadOptional(config.DefaultPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
			os.Exit(1)
		}
		buffers, st, err := smooth.Run(context.Background(), b.Groups(),
			settings.Smooth.Scaled(board.UnitsPerMil), settings.Workers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Smoothing failed: %v\n", err)
			os.Exit(1)
		}
		b.Commit(buffers)
		fmt.Printf("Smoothed %d junctions, %d arcs\n", st.JunctionsSmoothed+st.JunctionsArced, st.ArcsEmitted)
	}

	scene := render.Scene{Arcs: b.Arcs()}
	for _, g := range b.Groups() {
		scene.Tracks = append(scene.Tracks, g.Tracks...)
	}

	opts := render.DefaultRenderOptions()
	opts.Scale = *scale
	opts.MaxSize = *maxSize
	img := render.Render(scene, opts)

	if err := render.WritePNG(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d, %d tracks, %d arcs)\n",
		*out, img.Bounds().Dx(), img.Bounds().Dy(), len(scene.Tracks), len(scene.Arcs))
}
