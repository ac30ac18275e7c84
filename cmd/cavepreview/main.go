// Command cavepreview prints generated cave maps as text, optionally one
// frame per generation phase.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/anthill/config"
	"github.com/pthm-cable/anthill/mapgen"
)

// render writes a map as one line per row: '#' wall, '*' food, '.' open.
func render(w io.Writer, res mapgen.Result) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	for y, row := range res.Walls {
		for x, wall := range row {
			switch {
			case wall:
				bw.WriteByte('#')
			case res.Food[y][x] > 0:
				bw.WriteByte('*')
			default:
				bw.WriteByte('.')
			}
		}
		bw.WriteByte('\n')
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.String("seed", "", "Map seed (empty = random)")
	width := flag.Int("width", 0, "Map width in cells (0 = use config)")
	height := flag.Int("height", 0, "Map height in cells (0 = use config)")
	steps := flag.Bool("steps", false, "Print every generation phase")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opts := mapgen.OptionsFromConfig(cfg)
	if *width > 0 {
		opts.Width = *width
	}
	if *height > 0 {
		opts.Height = *height
	}
	if *seed == "" {
		*seed = mapgen.RandomSeed(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	gen := mapgen.New(opts)
	if !*steps {
		fmt.Printf("seed %s (%dx%d)\n", *seed, opts.Width, opts.Height)
		render(os.Stdout, gen.Generate(*seed))
		return
	}
	for res := range gen.Steps(*seed) {
		fmt.Printf("seed %s phase %s final=%t\n", *seed, res.Phase, res.Final)
		render(os.Stdout, res)
		fmt.Println()
	}
}
