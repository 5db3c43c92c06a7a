// Package solution decodes dives recorded by the Suunto Solution family.
//
// A Solution dive is a stream of single byte records that starts at offset 3 and ends
// with the byte 0x80, followed by the minutes of the last, incomplete sample interval:
//
//   - 0x7E, 0x7F, 0x81 and 0x82 are events (deco stop, ceiling, slow ascent, unknown).
//   - Any other byte is a signed depth change in feet over a three minute interval.
//     0x7D (+125) and 0x83 (-125) announce a larger change whose remainder is the next
//     byte.
//
// The profile holds no gas information; every dive is breathed on air.
package solution
