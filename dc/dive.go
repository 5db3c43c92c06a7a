package dc

// Dive is one dive found in a memory image.
//
// Data and Fingerprint are views into the image they were extracted from; they are only
// valid while that image is not modified. Copy them to keep a dive past the next dump.
type Dive struct {
	// Offset of the dive within the memory image.
	Offset int
	// Data is the raw dive, header included.
	Data []byte
	// Fingerprint identifies the dive. It can be handed to Device.SetFingerprint to
	// download only newer dives.
	Fingerprint []byte
}

// DiveFunc receives dives in the order a backend finds them. Returning false stops the
// enumeration without an error.
type DiveFunc func(d Dive) bool
