// Package wire implements the binary encoding of market-data primitives.
//
// Every value is written into or read from a caller-supplied byte slice. No
// function in this package allocates on the encode path, performs I/O, or keeps
// state between calls, so concurrent use on disjoint buffers is safe.
//
// # Integer Schemes
//
// Integers are written with one of three compact schemes, chosen by the
// declared DataType of the field, never negotiated at runtime:
//   - Length-prefixed: one length byte (0..8) followed by the minimal
//     two's-complement big-endian payload. Zero is the empty payload.
//   - Reserved-bit: the top one or two bits of the first byte select the
//     length class; the remaining bits carry the value (see Family).
//   - Sentinel-escaped: one byte carries small values directly; 0xFE and 0xFF
//     escape to a fixed-width big-endian field.
//
// # Reals
//
// A Real is a mantissa plus a one-byte format code. Format 0x20 marks a blank
// real and is never followed by mantissa bytes. The REAL type writes
// [length][format][mantissa]; reserved-bit real types fold the mantissa length
// into the top two bits of the format byte.
//
// # Errors
//
// Decoders report ErrMalformedLength for undefined length classes and
// ErrBufferUnderrun when the source is short. Encoders check capacity before
// writing and report ErrBufferOverrun without touching the destination.
package wire
