package dc

// Device is an open connection to one dive computer.
//
// A Device is not safe for concurrent use. The caller serializes all calls.
type Device interface {
	// Family returns the backend family of the device.
	Family() Family
	// SetFingerprint sets the fingerprint of the newest dive already downloaded.
	// An empty fingerprint clears it.
	SetFingerprint(fingerprint []byte) error
	// Version returns the raw version record of the device.
	Version() ([]byte, error)
	// Dump returns the raw memory image of the device.
	Dump() ([]byte, error)
	// Foreach dumps the device memory and reports every dive to fn, newest first.
	Foreach(fn DiveFunc) error
	// Close releases the transport.
	Close() error
}

// Parser decodes the dives of one family.
//
// A Parser is not safe for concurrent use.
type Parser interface {
	// Family returns the backend family of the parser.
	Family() Family
	// SetData replaces the dive the parser works on and drops any cached summary.
	SetData(data []byte) error
	// Field returns the summary field t.
	Field(t FieldType) (any, error)
	// SamplesForeach reports every sample of the dive to fn in chronological order.
	SamplesForeach(fn SampleFunc) error
}
