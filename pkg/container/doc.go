// Package container encodes and decodes ordered entry containers.
//
// A container is a header followed by a run of entries. The header declares
// the key type shared by every entry (NO_DATA for unkeyed containers), an
// optional summary load, and the entry count:
//
//	[flags][key type][summary type, summary]?[count u16][entries...]
//
// Each entry carries an action, its key, optional permission data, and a
// typed load:
//
//	[action | 0x10 if permission][key]?[permission buffer]?[load type][load]
//
// A nested container load is framed by a 32-bit length. Delete entries carry
// no load.
//
// Encoder writes into a caller-supplied fixed buffer and back-patches counts
// and nested lengths when a container is closed. Decoder is a forward-only
// cursor: Next yields entries in wire order and reports ErrEndOfContainer
// once the declared count is consumed.
package container
