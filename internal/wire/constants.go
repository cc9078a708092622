// Package wire implements the binary changeset/patchset codec itself:
// SQLite's big-endian continuation-bit varint, its serial-type value
// encoding, and the table-section/record framing built on top of both.
// Every exported function here is a pure transform over []byte — no I/O,
// no allocation beyond what the encoded form needs, matching spec.md §5's
// "single-threaded and synchronous" requirement for the core codec.
package wire

// Op-codes used in the binary format, matching SQLite's session extension
// exactly (spec.md §4.D).
const (
	OpInsert byte = 0x12
	OpDelete byte = 0x09
	OpUpdate byte = 0x17
)

// Table format markers: the first byte of a TableSection header, and (for
// the first section in a stream) the byte that fixes the whole stream's
// format.
const (
	MarkerChangeSet byte = 'T'
	MarkerPatchSet  byte = 'P'
)

// Serial-type tags (spec.md §4.B).
const (
	serialNullOrUndefined = 0
	serialInt8            = 1
	serialInt16           = 2
	serialInt24           = 3
	serialInt32           = 4
	serialInt48           = 5
	serialInt64           = 6
	serialReal            = 7
	serialIntZero         = 8
	serialIntOne          = 9
	// 10, 11 reserved, must never be emitted or accepted.
)

const blobTextBase = 12
