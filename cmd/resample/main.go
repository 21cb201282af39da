// Command resample warps rasters onto a reference raster's grid so their
// pixels align for zonal statistics, optionally building overview pyramids
// on each output.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/terrametric/zonal.report/internal/resample"
)

// stringList accumulates repeated flag values; comma-separated values split.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

var (
	tiffs     stringList
	ref       = flag.String("ref", "", "Reference raster defining the target grid (required)")
	outDir    = flag.String("out-dir", "", "Directory for aligned outputs (default: alongside each input)")
	overviews = flag.Bool("overviews", true, "Build overview pyramids on aligned outputs")
)

func init() {
	flag.Var(&tiffs, "tiffs", "Raster path to align (repeatable)")
	flag.Var(&tiffs, "t", "Raster path to align (shorthand for -tiffs)")
}

func main() {
	flag.Parse()

	if *ref == "" {
		log.Fatal("Reference raster is required (use -ref)")
	}
	if len(tiffs) == 0 {
		log.Fatal("At least one raster is required (use -t)")
	}

	for i, src := range tiffs {
		out := resample.OutputPath(src, *outDir)
		log.Printf("[%d/%d] Aligning %s -> %s", i+1, len(tiffs), src, out)

		if err := resample.Align(src, *ref, out); err != nil {
			log.Fatalf("Failed to align %s: %v", src, err)
		}

		if *overviews {
			if err := resample.BuildOverviews(out); err != nil {
				log.Fatalf("Failed to build overviews for %s: %v", out, err)
			}
		}
	}

	log.Printf("Aligned %d rasters to the grid of %s", len(tiffs), *ref)
}
