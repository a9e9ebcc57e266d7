// Command trackstats lists the track junctions of an EasyEDA PCB file.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"pcb-roundtracks/internal/board"
	"pcb-roundtracks/internal/junction"
	"pcb-roundtracks/internal/smooth"
)

func main() {
	minDegree := flag.Int("minDegree", 2, "Only list junctions with at least this many tracks")
	minAngle := flag.Float64("minAngle", smooth.DefaultParams().MinAngle, "Mark junctions bending more than this many degrees")
	quiet := flag.Bool("quiet", false, "Print the summary only")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: trackstats [-minDegree 2] [-minAngle 5.625] [-quiet] <board.json>")
		os.Exit(1)
	}

	b, err := board.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load board: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s: %d groups, %d track segments\n", flag.Arg(0), len(b.Groups()), b.TrackCount())

	if !*quiet {
		fmt.Printf("\n%-16s %6s %12s %12s %7s %9s %s\n",
			"Net", "Layer", "X", "Y", "Tracks", "MaxBend", "Smooth")
		fmt.Println(strings.Repeat("-", 74))
	}

	degrees := make(map[int]int)
	sharp := 0
	total := 0
	for _, g := range b.Groups() {
		for _, j := range junction.Build(g.Tracks).Junctions(*minDegree) {
			j.SortByAngle()
			bend := j.MaxBend()
			mark := ""
			if bend >= *minAngle {
				mark = "yes"
				sharp++
			}
			degrees[len(j.Views)]++
			total++
			if !*quiet {
				fmt.Printf("%-16s %6s %12.3f %12.3f %7d %9.2f %s\n",
					g.Key.Net, g.Key.Layer, j.Point.X, j.Point.Y, len(j.Views), bend, mark)
			}
		}
	}

	keys := make([]int, 0, len(degrees))
	for k := range degrees {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	fmt.Printf("\nTotal: %d junctions, %d bend more than %.3f degrees\n", total, sharp, *minAngle)
	for _, k := range keys {
		fmt.Printf("  %d-way: %d\n", k, degrees[k])
	}
}
