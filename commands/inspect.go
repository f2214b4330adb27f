package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwkimmel/mcmapper/chunk"
	"github.com/bwkimmel/mcmapper/log"
	"github.com/bwkimmel/mcmapper/region"
	"github.com/google/subcommands"
)

// Inspect implements the inspect command: it walks a world's region files and
// reports per-region chunk decode statistics without writing any images.
type Inspect struct{}

func (*Inspect) Name() string {
	return "inspect"
}

func (*Inspect) Synopsis() string {
	return "Report per-region chunk statistics for a Minecraft world."
}

func (*Inspect) Usage() string {
	return `inspect <world>
Walk every chunk in a Minecraft world and report, per region file, the number
of chunks read as valid chunk data, the number of chunks whose data was
missing required fields, and the fraction of surface columns that are not
air. Chunks the region reader cannot read, decompress or decode are logged as
warnings and not counted. <world> should be the directory containing
level.dat. No images are written.

`
}

func (*Inspect) SetFlags(*flag.FlagSet) {}

func (*Inspect) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		log.Error("<world> is required.")
		return subcommands.ExitUsageError
	}
	if f.NArg() > 1 {
		log.Error("Extra positional arguments found.")
		return subcommands.ExitUsageError
	}
	world := f.Arg(0)
	if err := checkLevelDat(world); err != nil {
		log.Errorf("Inspect: %v", err)
		return subcommands.ExitFailure
	}
	if err := inspectDimension(0, filepath.Join(world, "region")); err != nil {
		log.Errorf("Inspect: %v", err)
		return subcommands.ExitFailure
	}
	if err := inspectDimension(-1, filepath.Join(world, "DIM-1", "region")); err != nil {
		log.Errorf("Inspect: %v", err)
		return subcommands.ExitFailure
	}
	if err := inspectDimension(1, filepath.Join(world, "DIM1", "region")); err != nil {
		log.Errorf("Inspect: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// regionStats holds the per-region counters inspect reports.
type regionStats struct {
	chunks       int
	decodeErrors int
	columns      int
	nonAirCols   int
}

// inspectDimension walks every region file in a dimension's region directory
// and prints its stats. dim indicates which dimension is being processed
// (0=overworld, -1=nether, 1=the end).
func inspectDimension(dim int, path string) error {
	dir, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot read contents of directory %q: %v", path, err)
	}
	for _, entry := range dir {
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".mca") {
			continue
		}
		regionPath := filepath.Join(path, entry.Name())
		stats, err := inspectRegion(regionPath)
		if err != nil {
			return fmt.Errorf("region file %q: %v", regionPath, err)
		}
		nonAirPct := 0.0
		if stats.columns > 0 {
			nonAirPct = 100 * float64(stats.nonAirCols) / float64(stats.columns)
		}
		fmt.Printf("dim=%d region=%s chunks=%d decode_errors=%d non_air_surface=%.1f%%\n",
			dim, entry.Name(), stats.chunks, stats.decodeErrors, nonAirPct)
	}
	return nil
}

// inspectRegion walks every populated chunk in a single region file.
func inspectRegion(path string) (regionStats, error) {
	var stats regionStats
	reader, err := region.Open(path, logAdapter{})
	if err != nil {
		return stats, err
	}
	defer reader.Close()

	for {
		c, ok := reader.Next()
		if !ok {
			break
		}
		data, err := chunk.Extract(c.Root)
		if err != nil {
			stats.decodeErrors++
			continue
		}
		stats.chunks++
		for x := 0; x < chunk.SideLength; x++ {
			for z := 0; z < chunk.SideLength; z++ {
				stats.columns++
				if data.SurfaceBlock(x, z) != 0 {
					stats.nonAirCols++
				}
			}
		}
	}
	return stats, nil
}
