package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// rectangle returns the sideLength x sideLength window starting at (x, z).
func rectangle(x, z, sideLength int) image.Rectangle {
	return image.Rect(x, z, x+sideLength, z+sideLength)
}

// generateZoom synthesizes levels 1..ZoomLevels-1 from the level-0 region
// image.
//
// At level i the region is divided into a ratio[i] x ratio[i] grid of
// sub-tiles (4^i of them); each sub-tile is a sideLength x sideLength
// (sideLength = 512/ratio[i]) window of the level-0 image, solid-upscaled
// by ratio[i] back to 512x512 — no smoothing, so every source pixel becomes
// an exact ratio x ratio square.
func (r *ClassicRenderer) generateZoom() error {
	for level := 1; level < ZoomLevels; level++ {
		ratio := pixelToBlockRatio[level]
		sideLength := RegionSideLength / ratio
		sideSubdivisions := RegionSideLength / sideLength // == ratio
		subdivisionCount := sideSubdivisions * sideSubdivisions

		for j := 0; j < subdivisionCount; j++ {
			xOffset := (j % sideSubdivisions) * sideLength
			zOffset := (j / sideSubdivisions) * sideLength

			window := imaging.Crop(r.regionImg, rectangle(xOffset, zOffset, sideLength))
			tile := imaging.Resize(window, RegionSideLength, RegionSideLength, imaging.NearestNeighbor)
			if err := r.writeTile(level, j, tile); err != nil {
				return fmt.Errorf("render: zoom level %d, tile %d: %w", level, j, err)
			}
		}
	}
	return nil
}
