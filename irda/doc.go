// Package irda defines the link-layer socket the dive computer drivers talk through.
//
// Drivers only need a handful of primitives from the link: peer discovery, connecting to a
// service access point, blocking reads and writes, and the number of bytes that can be read
// without blocking. [Socket] captures exactly that, so a driver can run over a native IrDA
// stack, a serial IrDA dongle, a TCP bridge or the scripted socket in package irdatest.
//
// # Read Semantics
//
// [Socket.Read] blocks until len(p) bytes have arrived or the socket read timeout expires.
// On timeout it returns the bytes received so far together with [ErrTimeout]. Any other
// error is an I/O failure of the link. Drivers treat every short transfer as a failure.
package irda
