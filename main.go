// Package main provides the pcb-roundtracks command, which rounds the track
// corners of an EasyEDA PCB file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"pcb-roundtracks/internal/board"
	"pcb-roundtracks/internal/config"
	"pcb-roundtracks/internal/render"
	"pcb-roundtracks/internal/smooth"
	"pcb-roundtracks/internal/version"
	"pcb-roundtracks/internal/watch"
)

const usage = `Usage: pcb-roundtracks [flags] <input.json> [output.json]

Rounds the corners of every track in an EasyEDA PCB file. The output defaults
to <input>_smoothed.json. Distances are in mils.

Flags:
`

var errSameOutput = errors.New("output must differ from input in watch mode")

// options is the resolved command line.
type options struct {
	input, output string
	preview       string
	watch         bool
	verbose       bool
	showVersion   bool
	saveConfig    string
	settings      config.Settings
}

// parseArgs resolves settings with precedence defaults < settings file <
// flags given on the command line.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	def := config.Default()

	fs := flag.NewFlagSet("pcb-roundtracks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	radius := fs.Float64("radius", def.Smooth.Radius, "Corner radius of zero-width tracks")
	widthMult := fs.Float64("radiusWidthMultiplier", def.Smooth.RadiusWidthMultiplier, "Radius added per unit of track width")
	maxRadius := fs.Float64("maxRadius", def.Smooth.MaxRadius, "Largest corner radius")
	minAngle := fs.Float64("minAngle", def.Smooth.MinAngle, "Junctions bending less than this many degrees are left alone")
	minLength := fs.Float64("minLength", def.Smooth.MinLength, "Shortest track piece worth creating")
	iterations := fs.Int("iterations", def.Smooth.Iterations, "Subdivision passes")
	multiway := fs.Bool("multiway", def.Smooth.MultiWay, "Fit arcs at junctions of three or more tracks")
	multiwayShorten := fs.Bool("multiwayShorten", def.Smooth.MultiWayShorten, "Trim tracks back to the fitted arcs")
	regions := fs.Bool("regions", def.Smooth.FillRegions, "Emit a solid region per arced junction")
	workers := fs.Int("workers", def.Workers, "Groups smoothed in parallel (0 = all CPUs)")

	var o options
	configPath := fs.String("config", "", "Settings file (default "+config.DefaultPath()+" when present)")
	fs.StringVar(&o.preview, "preview", "", "Write a PNG preview of the result to this path")
	fs.BoolVar(&o.watch, "watch", false, "Re-run whenever the input file changes")
	fs.BoolVar(&o.verbose, "verbose", false, "Log every smoothed junction")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	save := fs.Bool("saveConfig", false, "Write the resolved settings to the settings file and exit")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.showVersion {
		return o, nil
	}

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	var err error
	if *configPath != "" && !*save {
		o.settings, err = config.Load(path)
	} else {
		o.settings, err = config.LoadOptional(path)
	}
	if err != nil {
		return o, err
	}

	s := &o.settings
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "radius":
			s.Smooth.Radius = *radius
		case "radiusWidthMultiplier":
			s.Smooth.RadiusWidthMultiplier = *widthMult
		case "maxRadius":
			s.Smooth.MaxRadius = *maxRadius
		case "minAngle":
			s.Smooth.MinAngle = *minAngle
		case "minLength":
			s.Smooth.MinLength = *minLength
		case "iterations":
			s.Smooth.Iterations = *iterations
		case "multiway":
			s.Smooth.MultiWay = *multiway
		case "multiwayShorten":
			s.Smooth.MultiWayShorten = *multiwayShorten
		case "regions":
			s.Smooth.FillRegions = *regions
		case "workers":
			s.Workers = *workers
		}
	})
	if err := s.Smooth.Validate(); err != nil {
		return o, err
	}
	if *save {
		o.saveConfig = path
		return o, nil
	}

	switch fs.NArg() {
	case 1:
		o.input = fs.Arg(0)
		o.output = board.DefaultOutputPath(o.input)
	case 2:
		o.input, o.output = fs.Arg(0), fs.Arg(1)
	default:
		fs.Usage()
		return o, errors.New("expected an input file and an optional output file")
	}

	if o.watch && samePath(o.input, o.output) {
		return o, errSameOutput
	}
	return o, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// process smooths one board file and writes the result.
func process(ctx context.Context, o options, stdout io.Writer) error {
	b, err := board.Load(o.input)
	if err != nil {
		return err
	}

	p := o.settings.Smooth.Scaled(board.UnitsPerMil)
	buffers, st, err := smooth.Run(ctx, b.Groups(), p, o.settings.Workers)
	if err != nil {
		return err
	}
	added := b.Commit(buffers)

	if err := b.Save(o.output); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d groups, %d junctions subdivided (%d connectors), %d junctions arced (%d arcs, %d regions), %d shapes added\n",
		o.output, st.Groups, st.JunctionsSmoothed, st.ConnectorsAdded,
		st.JunctionsArced, st.ArcsEmitted, st.RegionsEmitted, added)

	if o.preview != "" {
		scene := render.Scene{Arcs: b.Arcs()}
		for _, g := range b.Groups() {
			scene.Tracks = append(scene.Tracks, g.Tracks...)
		}
		if err := render.WritePNG(o.preview, render.Render(scene, render.DefaultRenderOptions())); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return nil
}

// run is main without the process exit.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if o.saveConfig != "" {
		if err := config.Save(o.saveConfig, o.settings); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Settings written to %s\n", o.saveConfig)
		return nil
	}
	if o.verbose {
		smooth.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := process(ctx, o, stdout); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	log.Printf("Watching %s for changes", o.input)
	return watch.New(o.input, watch.DefaultDebounce, func(ctx context.Context) error {
		return process(ctx, o, stdout)
	}).Run(ctx)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
