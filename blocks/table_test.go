package blocks

import (
	"strings"
	"testing"
)

func TestLoadParsesHexColors(t *testing.T) {
	csv := "id,hex,name\n1,#7D7D7D,stone\n2,#6A9C41,grass_block\n"
	table, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := table.ColorOf(1)
	if got.R != 0x7D || got.G != 0x7D || got.B != 0x7D || got.A != 255 {
		t.Fatalf("ColorOf(1) = %+v, want {0x7D,0x7D,0x7D,255}", got)
	}
}

func TestColorOfUnknownIDIsOpaqueBlack(t *testing.T) {
	table, err := Load(strings.NewReader("id,hex,name\n1,#FFFFFF,white\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := table.ColorOf(999)
	if got.R != 0 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Fatalf("ColorOf(unknown) = %+v, want opaque black", got)
	}
}

func TestDefaultCatalogLoadsAndOmitsAir(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, ok := table.colors[0]; ok {
		t.Fatalf("default catalog should not carry an explicit entry for air (id 0)")
	}
	if _, ok := table.colors[1]; !ok {
		t.Fatalf("default catalog should carry an entry for stone (id 1)")
	}
}

func TestLoadRejectsMalformedColor(t *testing.T) {
	_, err := Load(strings.NewReader("1,notacolor,x\n"))
	if err == nil {
		t.Fatalf("Load: expected error for malformed color")
	}
}
