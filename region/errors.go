package region

import (
	"fmt"
)

// CompressionError is returned when a chunk declares a compression type
// this package doesn't decode: anything other than 2 (zlib) or 3 (stored),
// including 1 (gzip). See
// https://minecraft.gamepedia.com/Region_file_format#Chunk_data.
type CompressionError struct {
	Type int8
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("region: unsupported compression type %d", e.Type)
}
