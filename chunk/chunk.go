// Package chunk interprets a decoded NBT chunk root into the fixed-size
// arrays the renderer walks: a 16x16 height map and up to sixteen 16x16x16
// block sections.
package chunk

import (
	"fmt"

	"github.com/bwkimmel/mcmapper/nbt"
)

const (
	// SideLength is the number of blocks along one edge of a chunk.
	SideLength = 16

	// SectionHeight is the number of blocks in one chunk section's Y axis.
	SectionHeight = 16

	// SectionCount is the maximum number of vertical sections in a chunk
	// (a Y range of 0-255 in 16-block sections).
	SectionCount = 16
)

// Section is one 16x16x16 slice of a chunk. A nil *Section (no section tag
// present for that slot) is treated as entirely air by SurfaceBlock.
type Section struct {
	Y      int8
	Blocks [SideLength * SideLength * SectionHeight]byte
}

// ChunkData is the subset of a chunk's NBT tree the renderer needs: its
// world position, height map, and block sections, indexed by section number
// ((HeightMap[x+z*16]-1)/SectionHeight for the surface block).
type ChunkData struct {
	XPos, ZPos int32
	HeightMap  [SideLength * SideLength]int32
	Sections   [SectionCount]*Section
}

// ErrInvalidChunk is returned by Extract when a chunk's NBT tree is missing
// a required field or has a field of the wrong shape.
type ErrInvalidChunk struct {
	Reason string
}

func (e *ErrInvalidChunk) Error() string {
	return fmt.Sprintf("chunk: invalid chunk data: %s", e.Reason)
}

// Extract reads xPos, zPos, the height map, and the block sections out of a
// chunk's root NBT Compound. root is the whole chunk's root tag (the "Level"
// compound is nested one level in, per the Java Edition chunk format).
func Extract(root nbt.Tag) (*ChunkData, error) {
	if root.Kind != nbt.KindCompound {
		return nil, &ErrInvalidChunk{Reason: "root tag is not a Compound"}
	}

	xPos, ok := nbt.ChildAtPath(root, "Level.xPos", nbt.KindInt)
	if !ok {
		return nil, &ErrInvalidChunk{Reason: "missing Level.xPos"}
	}
	zPos, ok := nbt.ChildAtPath(root, "Level.zPos", nbt.KindInt)
	if !ok {
		return nil, &ErrInvalidChunk{Reason: "missing Level.zPos"}
	}
	heightMap, ok := nbt.ChildAtPath(root, "Level.HeightMap", nbt.KindIntArray)
	if !ok {
		return nil, &ErrInvalidChunk{Reason: "missing Level.HeightMap"}
	}
	if len(heightMap.Ints) != SideLength*SideLength {
		return nil, &ErrInvalidChunk{Reason: fmt.Sprintf("HeightMap has %d entries, want %d", len(heightMap.Ints), SideLength*SideLength)}
	}
	sections, ok := nbt.ChildAtPath(root, "Level.Sections", nbt.KindList)
	if !ok {
		return nil, &ErrInvalidChunk{Reason: "missing Level.Sections"}
	}

	data := &ChunkData{XPos: xPos.Int, ZPos: zPos.Int}
	copy(data.HeightMap[:], heightMap.Ints)

	for _, sectionTag := range sections.List {
		if sectionTag.Kind != nbt.KindCompound {
			return nil, &ErrInvalidChunk{Reason: "section tag is not a Compound"}
		}
		yTag, ok := nbt.ChildByName(sectionTag, "Y")
		if !ok || yTag.Kind != nbt.KindByte {
			return nil, &ErrInvalidChunk{Reason: "section missing Y"}
		}
		blocksTag, ok := nbt.ChildByName(sectionTag, "Blocks")
		if !ok || blocksTag.Kind != nbt.KindByteArray {
			// Sections with no block data (e.g. an all-air section some
			// generators omit entirely) are simply absent from the list;
			// a section tag that declares Y but no Blocks is rejected.
			return nil, &ErrInvalidChunk{Reason: fmt.Sprintf("section %d missing Blocks", yTag.Byte)}
		}
		if len(blocksTag.Bytes) != len(Section{}.Blocks) {
			return nil, &ErrInvalidChunk{Reason: fmt.Sprintf("section %d Blocks has %d entries, want %d", yTag.Byte, len(blocksTag.Bytes), len(Section{}.Blocks))}
		}
		if yTag.Byte < 0 || int(yTag.Byte) >= SectionCount {
			continue // Out-of-range section index; ignore rather than fail the whole chunk.
		}
		sec := &Section{Y: yTag.Byte}
		copy(sec.Blocks[:], blocksTag.Bytes)
		data.Sections[yTag.Byte] = sec
	}

	return data, nil
}

// SurfaceBlock returns the block id of the topmost non-air block at local
// column (x, z), per the height map. x and z must each be in [0, 15].
//
// HeightMap stores the y-coordinate of the air block immediately above the
// surface, so the surface itself is at y = h-1, clamped to >= 0. From there:
// section = y/16, local = y - section*16, blockIndex = x + z*16 + local*256.
// A missing section (no section tag for that Y) is treated as air (block id
// 0), and a height of 0 resolves to y = 0, section 0, local 0.
func (c *ChunkData) SurfaceBlock(x, z int) byte {
	height := int(c.HeightMap[x+z*SideLength])
	y := height - 1
	if y < 0 {
		y = 0
	}
	section := y / SectionHeight
	local := y - section*SectionHeight
	if section < 0 || section >= SectionCount || c.Sections[section] == nil {
		return 0
	}
	blockIndex := x + z*SideLength + local*SideLength*SideLength
	return c.Sections[section].Blocks[blockIndex]
}
