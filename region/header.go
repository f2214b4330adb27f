// Package region reads Minecraft Anvil region files (.mca): the 8kB header
// of chunk locations and timestamps, followed by zlib- or gzip-compressed
// NBT chunk payloads in 4kB sectors.
package region

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// SectorSize is the size, in bytes, of one region file sector.
	SectorSize = 4096

	// sideLength is the number of chunks along one edge of a region.
	sideLength = 32

	// ChunkCount is the number of chunk slots in a region file (32 x 32).
	ChunkCount = sideLength * sideLength
)

// ErrMalformedRegion is returned when a region file is too short to hold a
// complete 8kB location and timestamp header.
var ErrMalformedRegion = errors.New("region: malformed region file")

// Location is a chunk's position within a region file, in 4kB sectors.
type Location struct {
	SectorOffset uint32
	SectorCount  uint8
}

// Present reports whether this location entry refers to actual chunk data.
// A location of all zero bytes means the chunk has not been generated.
func (l Location) Present() bool {
	return l.SectorOffset != 0 || l.SectorCount != 0
}

// Header is the 8kB block at the start of a region file: 1024 chunk
// locations followed by 1024 chunk modification timestamps, indexed by
// dz*32+dx.
type Header struct {
	Locations  [ChunkCount]Location
	Timestamps [ChunkCount]uint32
}

// ReadHeader reads the chunk location and timestamp tables from the start of
// a region file. r should be positioned at the start of the file.
func ReadHeader(r io.Reader) (*Header, error) {
	var raw [ChunkCount]uint32
	if err := binary.Read(r, binary.BigEndian, &raw); err != nil {
		return nil, fmt.Errorf("region: reading chunk locations: %w: %w", ErrMalformedRegion, err)
	}
	h := &Header{}
	for i, v := range raw {
		h.Locations[i] = Location{
			SectorOffset: (v & 0xffffff00) >> 8,
			SectorCount:  uint8(v & 0xff),
		}
	}
	if err := binary.Read(r, binary.BigEndian, &h.Timestamps); err != nil {
		return nil, fmt.Errorf("region: reading chunk timestamps: %w: %w", ErrMalformedRegion, err)
	}
	return h, nil
}

// WriteTo serializes the header back into the 8kB on-disk layout, for use by
// the compact command after it has rewritten a region file's sectors.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var raw [ChunkCount]uint32
	for i, loc := range h.Locations {
		raw[i] = uint32(loc.SectorOffset<<8) | uint32(loc.SectorCount)
	}
	if err := binary.Write(w, binary.BigEndian, &raw); err != nil {
		return 0, fmt.Errorf("region: writing chunk locations: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, &h.Timestamps); err != nil {
		return int64(len(raw)) * 4, fmt.Errorf("region: writing chunk timestamps: %w", err)
	}
	return int64(len(raw))*4 + int64(len(h.Timestamps))*4, nil
}
