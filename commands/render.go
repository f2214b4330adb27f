package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bwkimmel/mcmapper/blocks"
	"github.com/bwkimmel/mcmapper/chunk"
	"github.com/bwkimmel/mcmapper/log"
	"github.com/bwkimmel/mcmapper/region"
	"github.com/bwkimmel/mcmapper/render"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

// logAdapter wires the core packages' injectable Logger/Warnf interfaces to
// the package-level log.Warnf, so nbt/region/chunk/render never import log
// directly and stay usable as a library.
type logAdapter struct{}

func (logAdapter) Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Render implements the render command.
type Render struct {
	outputDir string
	catalog   string
	workers   int
}

func (*Render) Name() string {
	return "render"
}

func (*Render) Synopsis() string {
	return "Render a Minecraft world to a zoomable tile image."
}

func (*Render) Usage() string {
	return `render [<flags>...] <world>
Render a Minecraft world to a zoomable, 4-level tile pyramid of JPEG images.

<world> should be the directory containing level.dat. Tiles are written under
<output>/<world_name>/<level>/.

`
}

func (r *Render) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.outputDir, "output", "maps", "Directory under which to write rendered tiles.")
	f.StringVar(&r.catalog, "block_colors", "", "CSV file (id,hex,name) of block colors to use instead of the built-in catalog.")
	f.IntVar(&r.workers, "workers", 1, "Number of region files to render concurrently.")
}

func (r *Render) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		log.Errorf("Render: %v", err)
		return subcommands.ExitFailure
	}
	colors, err := r.loadColors()
	if err != nil {
		log.Errorf("Render: %v", err)
		return subcommands.ExitFailure
	}
	if err := renderWorld(world, r.outputDir, colors, r.workers); err != nil {
		log.Errorf("Render: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// loadColors loads the block-color catalog: the caller-supplied CSV file if
// -block_colors was given, otherwise the catalog embedded in the binary.
func (r *Render) loadColors() (*blocks.Table, error) {
	if r.catalog == "" {
		return blocks.Default()
	}
	f, err := os.Open(r.catalog)
	if err != nil {
		return nil, fmt.Errorf("cannot open block color catalog: %w", err)
	}
	defer f.Close()
	return blocks.Load(f)
}

// renderWorld renders every region file in <world>/region to
// <outputDir>/<world_name>/. A workers count greater than 1 processes
// distinct region files concurrently, each on its own render.ClassicRenderer;
// the shared blocks.Table is read-only after loadColors returns, so workers
// share it without copying.
func renderWorld(world, outputDir string, colors *blocks.Table, workers int) error {
	regionDir := filepath.Join(world, "region")
	entries, err := os.ReadDir(regionDir)
	if err != nil {
		return fmt.Errorf("cannot read region directory %q: %w", regionDir, err)
	}
	var paths []string
	for _, entry := range entries {
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mca") {
			paths = append(paths, filepath.Join(regionDir, entry.Name()))
		}
	}

	mapName := filepath.Base(world)
	bar := progressbar.Default(int64(len(paths)), "rendering "+mapName)

	if workers < 1 {
		workers = 1
	}
	jobs := make(chan string)
	var wg sync.WaitGroup
	errs := make(chan error, len(paths))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			renderer := render.NewClassicRenderer(outputDir, colors, logAdapter{})
			for path := range jobs {
				if err := renderRegionFile(renderer, mapName, path); err != nil {
					errs <- fmt.Errorf("region file %q: %w", path, err)
				}
				bar.Add(1)
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

// renderRegionFile renders the region at path into a single 512x512 tile
// (plus its zoom pyramid) under the renderer's output directory.
func renderRegionFile(renderer *render.ClassicRenderer, mapName, path string) error {
	var x, z int
	if _, err := fmt.Sscanf(filepath.Base(path), "r.%d.%d.mca", &x, &z); err != nil {
		return fmt.Errorf("invalid region file name %q", path)
	}
	regionName := fmt.Sprintf("r.%d.%d", x, z)

	reader, err := region.Open(path, logAdapter{})
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := renderer.BeginRegion(mapName, regionName); err != nil {
		return err
	}
	for {
		c, ok := reader.Next()
		if !ok {
			break
		}
		data, err := chunk.Extract(c.Root)
		if err != nil {
			log.Warnf("region %q, chunk (%d, %d): %v", path, c.X, c.Z, err)
			continue
		}
		if err := renderer.RenderChunk(data); err != nil {
			return err
		}
	}
	return renderer.FinishRegion()
}
