package gvas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// ContainerMagic opens a block-chunked compressed save container.
const ContainerMagic = 0x9E2A83C1

var (
	// ErrContainerMagic reports a container whose magic is wrong.
	ErrContainerMagic = errors.New("gvas: bad container magic")
	// ErrContainerSize reports a decompressed length that disagrees
	// with the container header.
	ErrContainerSize = errors.New("gvas: container size mismatch")
)

// DecompressFunc inflates one compressed chunk. blockSize is the
// container's declared uncompressed block size; every chunk except the
// last inflates to exactly that many bytes.
type DecompressFunc func(chunk []byte, blockSize int) ([]byte, error)

// Decompress unpacks a block-chunked container into the contiguous
// buffer Parse consumes. The 16-byte header carries the magic, the
// uncompressed block size and the total uncompressed size; each chunk
// is a compressed-size u32 followed by that many bytes. A chunk whose
// compressed size equals the block size is stored uncompressed.
func Decompress(data []byte, fn DecompressFunc) ([]byte, error) {
	cur := NewCursor(data)
	magic, err := cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != ContainerMagic {
		return nil, errAtf(0, ErrContainerMagic, "got 0x%08X", magic)
	}
	blockSize, err := cur.ReadU32()
	if err != nil {
		return nil, err
	}
	total, err := cur.ReadU64()
	if err != nil {
		return nil, err
	}

	// The declared total is corruption-controlled; cap preallocation.
	n := total
	if n > 64<<20 {
		n = 64 << 20
	}
	out := make([]byte, 0, n)
	for cur.Remaining() > 0 {
		chunkStart := cur.Pos()
		csize, err := cur.ReadU32()
		if err != nil {
			return nil, err
		}
		chunk, err := cur.ReadBytes(int64(csize))
		if err != nil {
			return nil, err
		}
		if csize == blockSize {
			out = append(out, chunk...)
			continue
		}
		if fn == nil {
			return nil, errAtf(chunkStart, ErrContainerSize, "compressed chunk with no decompressor")
		}
		dec, err := fn(chunk, int(blockSize))
		if err != nil {
			return nil, errAt(chunkStart, err)
		}
		out = append(out, dec...)
	}
	if uint64(len(out)) != total {
		return nil, errAtf(cur.Pos(), ErrContainerSize, "decompressed %d bytes, header declares %d", len(out), total)
	}
	return out, nil
}

// ZlibChunk is a DecompressFunc for zlib-deflated chunks.
func ZlibChunk(chunk []byte, blockSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAllLimit(r, blockSize)
}

// GzipChunk is a DecompressFunc for gzip-deflated chunks.
func GzipChunk(chunk []byte, blockSize int) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAllLimit(r, blockSize)
}

// ZstdChunk is a DecompressFunc for zstandard chunks.
func ZstdChunk(chunk []byte, blockSize int) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAllLimit(r, blockSize)
}

// LZ4Chunk is a DecompressFunc for raw lz4 block chunks.
func LZ4Chunk(chunk []byte, blockSize int) ([]byte, error) {
	dst := make([]byte, blockSize)
	n, err := lz4.UncompressBlock(chunk, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

func readAllLimit(r io.Reader, blockSize int) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, int64(blockSize)+1))
	if err != nil {
		return nil, err
	}
	if len(out) > blockSize {
		return nil, fmt.Errorf("gvas: chunk inflates past the %d byte block size", blockSize)
	}
	return out, nil
}
