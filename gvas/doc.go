// Package gvas decodes GVAS binary save-game property streams.
//
// GVAS is the self-describing format a game engine's generic save
// serializer emits: a versioned header followed by a recursive,
// sentinel-terminated list of named, type-tagged properties. The format
// is schema-less and full of non-uniform layout quirks (Bool carries no
// padding byte, map headers change shape per key/value combination), so
// the decoder treats each branch's byte layout as a fixed contract.
//
// The decoder is resilient by construction:
//   - Constructs with a declared byte size decode under a scoped cursor;
//     a failure inside the scope is recorded and the cursor recovers at
//     the declared boundary, so one opaque element never aborts a parse.
//   - Constructs without a size anchor fail fatally with the offset.
//   - Recursion depth is bounded by an explicit counter, independent of
//     the host call stack.
//
// # Large Collections
//
// Arrays and sets decode to a lazy ElementSeq holding the element byte
// region and a decode strategy. A Policy decides per property whether
// the sequence is materialized, summarized by count, or skipped; the
// cursor advances by the declared size in every mode, so siblings decode
// identically regardless of policy.
//
// # Usage
//
//	res, err := gvas.Parse(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if v, ok := res.Doc.Props.Get("CurrentDay"); ok {
//		day, _ := v.AsInt32()
//		fmt.Println(day)
//	}
//	fmt.Print(gvas.EmitJSON(res))
//
// Compressed saves unpack first through Decompress with a chunk codec
// such as ZlibChunk or LZ4Chunk.
package gvas
