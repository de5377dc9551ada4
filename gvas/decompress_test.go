package gvas

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// container frames chunks behind the 16-byte header.
func container(blockSize uint32, total uint64, chunks ...[]byte) []byte {
	var w wire
	w.u32(ContainerMagic).u32(blockSize).u64(total)
	for _, c := range chunks {
		w.u32(uint32(len(c))).raw(c)
	}
	return w.buf
}

func zlibChunk(t *testing.T, src []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

// block fills a compressible test payload.
func block(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%4)
	}
	return b
}

func TestDecompressStored(t *testing.T) {
	payload := block(16)
	data := container(8, 16, payload[:8], payload[8:])

	out, err := Decompress(data, nil)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("out = %v, want %v", out, payload)
	}
}

func TestDecompressZlib(t *testing.T) {
	payload := block(64)
	data := container(4096, 64, zlibChunk(t, payload))

	out, err := Decompress(data, ZlibChunk)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("zlib round trip mismatch")
	}
}

func TestDecompressZlibMultiChunk(t *testing.T) {
	payload := block(160)
	data := container(64, 160,
		zlibChunk(t, payload[:64]),
		zlibChunk(t, payload[64:128]),
		zlibChunk(t, payload[128:]))

	out, err := Decompress(data, ZlibChunk)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("multi-chunk round trip mismatch")
	}
}

func TestDecompressGzip(t *testing.T) {
	payload := block(64)
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(payload); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	data := container(4096, 64, buf.Bytes())

	out, err := Decompress(data, GzipChunk)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("gzip round trip mismatch")
	}
}

func TestDecompressZstd(t *testing.T) {
	payload := block(64)
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	chunk := enc.EncodeAll(payload, nil)
	enc.Close()
	data := container(4096, 64, chunk)

	out, err := Decompress(data, ZstdChunk)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("zstd round trip mismatch")
	}
}

func TestDecompressLZ4(t *testing.T) {
	payload := block(64)
	dst := make([]byte, lz4.CompressBlockBound(len(payload)))
	ht := make([]int, 64<<10)
	n, err := lz4.CompressBlock(payload, dst, ht)
	if err != nil {
		t.Fatalf("lz4 compress: %v", err)
	}
	if n == 0 {
		t.Fatal("lz4 found the payload incompressible")
	}
	data := container(4096, 64, dst[:n])

	out, err := Decompress(data, LZ4Chunk)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("lz4 round trip mismatch")
	}
}

func TestDecompressBadMagic(t *testing.T) {
	var w wire
	w.u32(0xDEADBEEF).u32(8).u64(8).u32(8).raw(block(8))

	_, err := Decompress(w.buf, nil)
	if !errors.Is(err, ErrContainerMagic) {
		t.Fatalf("Decompress = %v, want ErrContainerMagic", err)
	}
}

func TestDecompressTotalMismatch(t *testing.T) {
	data := container(8, 20, block(8), block(8))

	_, err := Decompress(data, nil)
	if !errors.Is(err, ErrContainerSize) {
		t.Fatalf("Decompress = %v, want ErrContainerSize", err)
	}
}

func TestDecompressNoFunc(t *testing.T) {
	payload := block(64)
	data := container(4096, 64, zlibChunk(t, payload))

	_, err := Decompress(data, nil)
	if !errors.Is(err, ErrContainerSize) {
		t.Fatalf("Decompress = %v, want ErrContainerSize", err)
	}
}

func TestDecompressChunkOverflow(t *testing.T) {
	// The chunk inflates to 64 bytes but the header promises 16 byte
	// blocks. The payload is incompressible so the compressed size
	// cannot collide with the block size.
	payload := make([]byte, 64)
	x := uint32(7)
	for i := range payload {
		x = x*1103515245 + 12345
		payload[i] = byte(x >> 16)
	}
	data := container(16, 64, zlibChunk(t, payload))

	_, err := Decompress(data, ZlibChunk)
	if err == nil {
		t.Fatal("oversized chunk decompressed")
	}
	if !strings.Contains(err.Error(), "inflates past") {
		t.Errorf("error = %v, want inflate guard", err)
	}
}

func TestDecompressThenParse(t *testing.T) {
	var w wire
	w.header()
	w.i32Prop("CurrentDay", 61)
	w.none()

	data := container(4096, uint64(len(w.buf)), zlibChunk(t, w.buf))
	raw, err := Decompress(data, ZlibChunk)
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	res, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	v, _ := res.Doc.Props.Get("CurrentDay")
	if got, _ := v.AsInt32(); got != 61 {
		t.Errorf("CurrentDay = %d, want 61", got)
	}
}
