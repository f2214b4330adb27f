package region

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bwkimmel/mcmapper/nbt"
	"github.com/klauspost/compress/zlib"
)

// Logger is the injectable sink region uses to report recoverable,
// per-chunk problems without aborting the region.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type discardLogger struct{}

func (discardLogger) Warnf(string, ...interface{}) {}

// Chunk is one decoded chunk's NBT root together with its position within
// the region's 32x32 chunk grid.
type Chunk struct {
	// X, Z are the chunk's region-local coordinates, each in [0, 31].
	X, Z int
	Root nbt.Tag
}

// Reader iterates over the populated chunks of a single region file. A
// malformed individual chunk is reported through Logger and skipped — it
// never aborts the rest of the region, so one corrupt chunk never prevents
// rendering the rest of the world.
type Reader struct {
	f      *os.File
	header *Header
	logger Logger
	idx    int
}

// Open opens the region file at path and reads its header. If logger is
// nil, per-chunk warnings are discarded.
func Open(path string, logger Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("region: open %q: %w", path, err)
	}
	h, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("region: %q: %w", path, err)
	}
	if logger == nil {
		logger = discardLogger{}
	}
	return &Reader{f: f, header: h, logger: logger}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Header returns the region's location and timestamp tables.
func (r *Reader) Header() *Header {
	return r.header
}

// Next returns the next populated chunk in the region, or ok=false once the
// region is exhausted. Chunks that fail to decode are logged and skipped
// rather than returned as an error.
func (r *Reader) Next() (chunk *Chunk, ok bool) {
	for r.idx < ChunkCount {
		i := r.idx
		r.idx++
		loc := r.header.Locations[i]
		if !loc.Present() {
			continue
		}
		cx, cz := i%sideLength, i/sideLength
		c, err := r.readChunkAt(loc, cx, cz)
		if err != nil {
			r.logger.Warnf("region: chunk (%d, %d): %v", cx, cz, err)
			continue
		}
		return c, true
	}
	return nil, false
}

// readChunkAt reads and decodes the chunk data at the given location. See
// https://minecraft.gamepedia.com/Region_file_format#Chunk_data.
func (r *Reader) readChunkAt(loc Location, cx, cz int) (*Chunk, error) {
	offset := int64(loc.SectorOffset) * SectorSize
	size := int64(loc.SectorCount) * SectorSize
	if _, err := r.f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	lr := io.LimitReader(r.f, size)

	d := nbt.NewReader(lr)
	length, err := d.Int32()
	if err != nil {
		return nil, fmt.Errorf("reading length: %w", err)
	}
	compression, err := d.Int8()
	if err != nil {
		return nil, fmt.Errorf("reading compression type: %w", err)
	}
	if length <= 1 {
		return nil, fmt.Errorf("empty chunk: declared length %d", length)
	}
	payload, err := d.Bytes(int(length) - 1)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	decompressed, err := decompress(payload, int8(compression))
	if err != nil {
		return nil, err
	}
	roots, err := nbt.Decode(decompressed)
	if err != nil {
		return nil, fmt.Errorf("decoding NBT: %w", err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("empty NBT stream")
	}
	return &Chunk{X: cx, Z: cz, Root: roots[0]}, nil
}

// decompress applies the chunk compression scheme declared by compression.
// Kind 2 (zlib) is what every vanilla world on disk actually uses and is the
// only compressed scheme this package decodes. Kind 1 (gzip-compressed chunk payload)
// is part of the region file format but decoding it is explicitly out of
// scope here — it is reported through CompressionError and the chunk is
// skipped. Kind 3 (stored, uncompressed) is trivial to support and costs
// nothing extra.
func decompress(data []byte, compression int8) (io.Reader, error) {
	switch compression {
	case 2:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		return zr, nil
	case 3:
		return bytes.NewReader(data), nil
	default:
		return nil, &CompressionError{Type: compression}
	}
}
