// Package render projects extracted chunk data into a 512x512 region tile
// and synthesizes its zoom pyramid, using github.com/disintegration/imaging
// for image construction and output.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/bwkimmel/mcmapper/blocks"
	"github.com/bwkimmel/mcmapper/chunk"
	"github.com/disintegration/imaging"
)

// DataFlags is a bitset declaring which parts of ChunkData a Renderer
// variant needs. chunk.Extract does not consult it: every field is always
// decoded.
type DataFlags uint

const (
	DataNone      DataFlags = 0
	DataHeightMap DataFlags = 1 << 0
	DataBlockIDs  DataFlags = 1 << 1
)

// RegionSideLength is the pixel width and height of one region tile:
// 32 chunks per region side times 16 blocks per chunk side.
const RegionSideLength = chunk.SideLength * 32

// ZoomLevels is the number of zoom levels in the pyramid, including level 0.
const ZoomLevels = 4

// pixelToBlockRatio is the pixel-per-block magnification at each zoom level.
var pixelToBlockRatio = [ZoomLevels]int{1, 2, 4, 8}

// Logger is the injectable sink for recoverable, per-chunk placement
// warnings.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type discardLogger struct{}

func (discardLogger) Warnf(string, ...interface{}) {}

// Renderer is the capability-set interface a tile renderer implements:
// BeginRegion allocates a fresh region image; RenderChunk paints one chunk
// into it; FinishRegion writes the level-0 tile and the zoom pyramid;
// DataFlags declares what fields of ChunkData this variant actually uses.
type Renderer interface {
	DataFlags() DataFlags
	BeginRegion(mapName, regionName string) error
	RenderChunk(data *chunk.ChunkData) error
	FinishRegion() error
}

// ClassicRenderer colors each column by its surface block. It requests the
// heightmap and block ids and relies entirely on chunk.SurfaceBlock for
// section resolution.
type ClassicRenderer struct {
	root   string
	colors *blocks.Table
	logger Logger

	outputDir  string
	regionName string
	regionImg  *image.NRGBA
}

// NewClassicRenderer returns a renderer that colors blocks using colors and
// writes tiles under root/<map_name>/. If logger is nil, placement warnings
// are discarded.
func NewClassicRenderer(root string, colors *blocks.Table, logger Logger) *ClassicRenderer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &ClassicRenderer{root: root, colors: colors, logger: logger}
}

// DataFlags implements Renderer.
func (r *ClassicRenderer) DataFlags() DataFlags {
	return DataHeightMap | DataBlockIDs
}

// BeginRegion implements Renderer: it allocates a fresh 512x512 image filled
// with a neutral background color and remembers where FinishRegion should
// write output.
func (r *ClassicRenderer) BeginRegion(mapName, regionName string) error {
	r.outputDir = filepath.Join(r.root, mapName)
	r.regionImg = imaging.New(RegionSideLength, RegionSideLength, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	r.regionName = regionName
	return nil
}

// placement computes the pixel origin (cx, cz) of a chunk's 16x16 block
// within the 32x32-chunk region, folding negative positions into the
// positive range and then clamping to [0, 31]. It reports whether clamping
// was necessary.
func placement(xPos, zPos int32) (cx, cz int, clamped bool) {
	cx = int(xPos % 32)
	if cx < 0 {
		cx = -cx
	}
	cz = int(zPos % 32)
	if cz < 0 {
		cz = -cz
	}
	if zPos < 0 {
		cz = 32 - cz
	}
	if xPos < 0 {
		cx = 32 - cx
	}
	if cx > 31 {
		cx = 31
		clamped = true
	}
	if cz > 31 {
		cz = 31
		clamped = true
	}
	return cx, cz, clamped
}

// RenderChunk implements Renderer: it paints data's 16x16 surface-block
// columns into the region image at the chunk's placement.
func (r *ClassicRenderer) RenderChunk(data *chunk.ChunkData) error {
	if r.regionImg == nil {
		return fmt.Errorf("render: RenderChunk called before BeginRegion")
	}
	cx, cz, clamped := placement(data.XPos, data.ZPos)
	if clamped {
		r.logger.Warnf("render: chunk (%d, %d) placement clamped to region column/row [0,31]", data.XPos, data.ZPos)
	}
	originX, originZ := cx*chunk.SideLength, cz*chunk.SideLength
	for x := 0; x < chunk.SideLength; x++ {
		for z := 0; z < chunk.SideLength; z++ {
			blockID := int32(data.SurfaceBlock(x, z))
			c := r.colors.ColorOf(blockID)
			r.regionImg.Set(originX+x, originZ+z, c)
		}
	}
	return nil
}

// FinishRegion implements Renderer: it writes the level-0 tile and then
// synthesizes the zoom pyramid.
func (r *ClassicRenderer) FinishRegion() error {
	if r.regionImg == nil {
		return fmt.Errorf("render: FinishRegion called before BeginRegion")
	}
	if err := r.writeTile(0, 0, r.regionImg); err != nil {
		return err
	}
	if err := r.generateZoom(); err != nil {
		return err
	}
	r.regionImg = nil
	return nil
}

// writeTile saves img as "<level>/<region>-<index>.jpeg" under the region's
// output directory.
func (r *ClassicRenderer) writeTile(level, index int, img image.Image) error {
	dir := filepath.Join(r.outputDir, fmt.Sprint(level))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render: creating tile directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.jpeg", r.regionName, index))
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("render: writing tile %q: %w", path, err)
	}
	return nil
}
