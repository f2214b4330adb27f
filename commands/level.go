package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bwkimmel/mcmapper/nbt"
	"github.com/klauspost/compress/gzip"
)

// checkLevelDat opens <worldPath>/level.dat, a standalone gzip-compressed NBT
// document unrelated to the zlib-compressed chunk payloads inside region
// files, and decodes it far enough to confirm worldPath is a real world
// directory. Its contents are otherwise unused.
func checkLevelDat(worldPath string) error {
	f, err := os.Open(filepath.Join(worldPath, "level.dat"))
	if err != nil {
		return fmt.Errorf("cannot open level.dat: %w", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("level.dat is not gzip-compressed: %w", err)
	}
	defer gz.Close()
	if _, err := nbt.Decode(gz); err != nil {
		return fmt.Errorf("cannot decode level.dat: %w", err)
	}
	return nil
}
