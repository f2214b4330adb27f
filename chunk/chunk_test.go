package chunk

import (
	"testing"

	"github.com/bwkimmel/mcmapper/nbt"
)

func compound(name string, children ...nbt.Tag) nbt.Tag {
	return nbt.Tag{Kind: nbt.KindCompound, Name: name, Compound: children}
}

func intTag(name string, v int32) nbt.Tag {
	return nbt.Tag{Kind: nbt.KindInt, Name: name, Int: v}
}

func intArrayTag(name string, v []int32) nbt.Tag {
	return nbt.Tag{Kind: nbt.KindIntArray, Name: name, Ints: v}
}

func byteTag(name string, v int8) nbt.Tag {
	return nbt.Tag{Kind: nbt.KindByte, Name: name, Byte: v}
}

func byteArrayTag(name string, v []byte) nbt.Tag {
	return nbt.Tag{Kind: nbt.KindByteArray, Name: name, Bytes: v}
}

func fullHeightMap(v int32) []int32 {
	hm := make([]int32, SideLength*SideLength)
	for i := range hm {
		hm[i] = v
	}
	return hm
}

func sectionBlocks(fill byte) []byte {
	b := make([]byte, SideLength*SideLength*SectionHeight)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestExtractMinimalChunk(t *testing.T) {
	root := compound("",
		compound("Level",
			intTag("xPos", 3),
			intTag("zPos", -1),
			intArrayTag("HeightMap", fullHeightMap(20)),
			nbt.Tag{Kind: nbt.KindList, Name: "Sections", ElemKind: nbt.KindCompound, List: []nbt.Tag{
				compound("", byteTag("Y", 1), byteArrayTag("Blocks", sectionBlocks(7))),
			}},
		),
	)
	data, err := Extract(root)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if data.XPos != 3 || data.ZPos != -1 {
		t.Fatalf("position = (%d, %d), want (3, -1)", data.XPos, data.ZPos)
	}
	if data.Sections[1] == nil || data.Sections[1].Y != 1 {
		t.Fatalf("Sections[1] = %+v, want Y=1", data.Sections[1])
	}
	// height 20 -> surface y 19 -> section 1, local 3.
	if got := data.SurfaceBlock(0, 0); got != 7 {
		t.Fatalf("SurfaceBlock(0,0) = %d, want 7", got)
	}
}

func TestSurfaceBlockMissingSectionIsAir(t *testing.T) {
	data := &ChunkData{}
	data.HeightMap[0] = 200 // section 12, which has no Section entry.
	if got := data.SurfaceBlock(0, 0); got != 0 {
		t.Fatalf("SurfaceBlock with missing section = %d, want 0 (air)", got)
	}
}

func TestSurfaceBlockHeightZeroBoundary(t *testing.T) {
	data := &ChunkData{}
	data.Sections[0] = &Section{Y: 0}
	data.Sections[0].Blocks[0] = 42
	data.HeightMap[0] = 0
	if got := data.SurfaceBlock(0, 0); got != 42 {
		t.Fatalf("SurfaceBlock at height 0 = %d, want 42 (section 0, local 0, index 0)", got)
	}
}

func TestExtractRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		root nbt.Tag
	}{
		{"missing Level", compound("")},
		{"missing xPos", compound("", compound("Level", intTag("zPos", 0), intArrayTag("HeightMap", fullHeightMap(0)), nbt.Tag{Kind: nbt.KindList, Name: "Sections"}))},
		{"wrong HeightMap length", compound("", compound("Level",
			intTag("xPos", 0), intTag("zPos", 0),
			intArrayTag("HeightMap", []int32{1, 2, 3}),
			nbt.Tag{Kind: nbt.KindList, Name: "Sections"},
		))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Extract(tt.root); err == nil {
				t.Fatalf("Extract(%s): expected error, got nil", tt.name)
			}
		})
	}
}

func TestExtractIgnoresOutOfRangeSectionIndex(t *testing.T) {
	root := compound("",
		compound("Level",
			intTag("xPos", 0), intTag("zPos", 0),
			intArrayTag("HeightMap", fullHeightMap(0)),
			nbt.Tag{Kind: nbt.KindList, Name: "Sections", ElemKind: nbt.KindCompound, List: []nbt.Tag{
				compound("", byteTag("Y", 20), byteArrayTag("Blocks", sectionBlocks(1))),
			}},
		),
	)
	data, err := Extract(root)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i, s := range data.Sections {
		if s != nil {
			t.Fatalf("Sections[%d] = %+v, want nil", i, s)
		}
	}
}
