package region

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// buildRegionFile writes a minimal valid .mca file to dir containing the
// given chunks, keyed by their (dz*32+dx) slot index, and returns its path.
func buildRegionFile(t *testing.T, dir string, chunks map[int][]byte) string {
	t.Helper()
	path := filepath.Join(dir, "r.0.0.mca")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	// Reserve the 8kB header; fill it in after the chunk payloads are known.
	var header [2 * SectorSize]byte
	if _, err := f.Write(header[:]); err != nil {
		t.Fatalf("write header placeholder: %v", err)
	}

	locs := make([]uint32, ChunkCount)
	nextSector := uint32(2)
	for slot, nbtData := range chunks {
		var zbuf bytes.Buffer
		zw := zlib.NewWriter(&zbuf)
		zw.Write(nbtData)
		zw.Close()

		var payload bytes.Buffer
		binary.Write(&payload, binary.BigEndian, int32(zbuf.Len()+1))
		payload.WriteByte(2) // zlib
		payload.Write(zbuf.Bytes())

		sectors := (payload.Len() + SectorSize - 1) / SectorSize
		padded := make([]byte, sectors*SectorSize)
		copy(padded, payload.Bytes())
		if _, err := f.Write(padded); err != nil {
			t.Fatalf("write chunk payload: %v", err)
		}
		locs[slot] = nextSector<<8 | uint32(sectors)
		nextSector += uint32(sectors)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if err := binary.Write(f, binary.BigEndian, locs); err != nil {
		t.Fatalf("write locations: %v", err)
	}
	return path
}

// minimalChunkNBT returns the bytes of a trivial NBT document: a root
// Compound named "" containing two Int tags, xPos and zPos.
func minimalChunkNBT(xPos, zPos int32) []byte {
	var buf bytes.Buffer
	buf.WriteByte(10) // Compound
	binary.Write(&buf, binary.BigEndian, uint16(0))

	buf.WriteByte(3) // Int
	binary.Write(&buf, binary.BigEndian, uint16(4))
	buf.WriteString("xPos")
	binary.Write(&buf, binary.BigEndian, xPos)

	buf.WriteByte(3) // Int
	binary.Write(&buf, binary.BigEndian, uint16(4))
	buf.WriteString("zPos")
	binary.Write(&buf, binary.BigEndian, zPos)

	buf.WriteByte(0) // End
	return buf.Bytes()
}

func TestReaderYieldsPopulatedChunksOnly(t *testing.T) {
	dir := t.TempDir()
	path := buildRegionFile(t, dir, map[int][]byte{
		0:  minimalChunkNBT(0, 0),
		5:  minimalChunkNBT(5, 0),
		63: minimalChunkNBT(31, 1),
	})

	r, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var got []Chunk
	for {
		c, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, *c)
	}
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	wantSlots := map[int]bool{0: true, 5: true, 63: true}
	for _, c := range got {
		slot := c.Z*sideLength + c.X
		if !wantSlots[slot] {
			t.Errorf("unexpected chunk at slot %d (x=%d, z=%d)", slot, c.X, c.Z)
		}
		delete(wantSlots, slot)
	}
	if len(wantSlots) != 0 {
		t.Errorf("missing chunks at slots %v", wantSlots)
	}
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, format)
}

func TestReaderSkipsCorruptChunkWithoutAbortingRegion(t *testing.T) {
	dir := t.TempDir()
	path := buildRegionFile(t, dir, map[int][]byte{
		0: minimalChunkNBT(0, 0),
		1: minimalChunkNBT(1, 0),
	})

	// Corrupt the first chunk's payload in place: flip the compression byte
	// to an unsupported value. The chunk in slot 1 is left intact.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	h, err := ReadHeader(f)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if _, err := f.Seek(int64(h.Locations[0].SectorOffset)*SectorSize+4, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := f.Write([]byte{9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	logger := &recordingLogger{}
	r, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	c, ok := r.Next()
	if !ok {
		t.Fatalf("expected the intact chunk after the corrupt one, got none")
	}
	if c.X != 1 || c.Z != 0 {
		t.Fatalf("got chunk (%d, %d), want (1, 0)", c.X, c.Z)
	}
	if _, ok := r.Next(); ok {
		t.Fatalf("expected corrupt chunk to be skipped, got a second chunk")
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(logger.warnings))
	}
}

func TestReaderSkipsZeroLengthChunkWithoutPanicking(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.mca")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var header [2 * SectorSize]byte
	if _, err := f.Write(header[:]); err != nil {
		t.Fatalf("write header placeholder: %v", err)
	}

	// A declared length of 0 is what a zeroed-out or truncated sector looks
	// like on disk; it must be skipped rather than passed on as a negative
	// byte count.
	var payload bytes.Buffer
	binary.Write(&payload, binary.BigEndian, int32(0))
	payload.WriteByte(2) // compression type, irrelevant once length <= 1
	padded := make([]byte, SectorSize)
	copy(padded, payload.Bytes())
	if _, err := f.Write(padded); err != nil {
		t.Fatalf("write chunk payload: %v", err)
	}

	locs := make([]uint32, ChunkCount)
	locs[0] = 2<<8 | 1
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if err := binary.Write(f, binary.BigEndian, locs); err != nil {
		t.Fatalf("write locations: %v", err)
	}
	f.Close()

	logger := &recordingLogger{}
	r, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if _, ok := r.Next(); ok {
		t.Fatalf("expected zero-length chunk to be skipped, got a chunk")
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(logger.warnings))
	}
}

func TestReadHeaderRejectsTruncatedFile(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(make([]byte, SectorSize)))
	if !errors.Is(err, ErrMalformedRegion) {
		t.Fatalf("ReadHeader: got %v, want an error wrapping ErrMalformedRegion", err)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	var h Header
	h.Locations[3] = Location{SectorOffset: 7, SectorCount: 2}
	h.Timestamps[3] = 123456

	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if *got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got.Locations[3], h.Locations[3])
	}
}
