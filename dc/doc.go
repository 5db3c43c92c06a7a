// Package dc holds the vocabulary shared by the dive computer backends in go-divelog.
//
// It defines the closed set of error kinds every backend reports, the device and parser
// families, the notification events emitted while talking to a device, the decoded sample
// and field types, and a small backend registry that lets callers pick a family at runtime.
//
// # Error Kinds
//
// Every failure returned by a backend wraps exactly one of the sentinel errors below, so
// callers can branch with [errors.Is] or map an error back to a result code with [StatusOf]:
//
//   - [ErrInvalidArgs]: nil or foreign handle, malformed size
//   - [ErrNoMemory]: a buffer could not be allocated
//   - [ErrIO]: the transport failed
//   - [ErrTimeout]: the transport gave up waiting for the peer
//   - [ErrProtocol]: the device answered with unexpected bytes or sizes
//   - [ErrDataFormat]: a memory image or sample stream is malformed
//   - [ErrUnsupported]: the family does not provide the requested field
//
// # Families
//
// Backends are tagged with a [Family]. A handle is validated against a backend by matching
// its family, and the registry in this package maps each family to the functions that
// construct its parser and segment its memory images.
package dc
