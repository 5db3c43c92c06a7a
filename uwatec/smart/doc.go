// Package smart implements the download protocol of the Uwatec Smart family (Smart Pro,
// Aladin Tec, Galileo Sol and relatives) over an IrDA link, and the segmentation of the
// downloaded memory image into dives.
//
// # Session
//
// [Open] discovers a device whose IrDA name contains one of the known model tokens,
// connects to LSAP 1 and performs the two stage handshake:
//
//   - 0x1B, answered by 0x01
//   - 0x1C 0x10 0x27 0x00 0x00, answered by 0x01
//
// A failed handshake is logged and recorded on the returned [Device] (see
// [Device.HandshakeErr]) but does not fail Open, unless [WithStrictHandshake] is set.
// Callers must check the result of the first real operation instead of assuming an open
// device is ready.
//
// # Dump
//
// [Device.Dump] reads the version record, then asks for the number of bytes recorded
// after the fingerprint timestamp (command 0xC6) and streams them (command 0xC4) in chunks
// of at least 32 bytes, growing a chunk to whatever the link already buffered. Progress is
// reported through the configured [dc.EventHandler]:
//
//	maximum = 4 + 9 + (length + 4), or 4 + 9 for an empty dump
//
// # Memory Image
//
// The image holds the dives back to back, newest last. Each dive starts with the marker
// A5 A5 5A 5A followed by its little-endian length; bytes 8 to 11 of a dive are its
// timestamp, which doubles as the fingerprint. [ExtractDives] and [Dives] scan the image
// backwards and report dives newest first.
package smart
