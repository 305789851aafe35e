// Package pie defines the program image format shared by the assembler
// and the VM: a fixed-length header identifying the image, followed by
// code, followed optionally by read-only data (spec.md §3, §6).
package pie

// HeaderLength is the total size of the header in bytes. spec.md §9
// flags an inconsistency in the system this was distilled from, where
// the header helper pads to 65 bytes while the declared length is 64;
// this implementation consolidates on the spec's own recommendation of
// 64, and the VM's program counter starts at byte 64 (see SPEC_FULL.md §3).
const HeaderLength = 64

// HeaderPrefix is the 4-byte magic identifying a valid image, ASCII "-21-".
var HeaderPrefix = [4]byte{0x2D, 0x32, 0x31, 0x2D}

// Image is the output of assembling a program. Code and RoData travel
// together as a single value rather than being spliced into one
// ambiguous byte stream, because spec.md §6's on-disk format has no
// length field to recover the code/ro_data boundary once they're
// concatenated (see SPEC_FULL.md §4.5 for the resolution this repo
// picked among the options spec.md §9 lays out).
type Image struct {
	Code   []byte
	RoData []byte
}

// Bytes renders the full on-disk artifact: header, then code, then
// ro_data. A reader with no other information can only recover the code
// length by knowing it out of band; see SPEC_FULL.md §4.5.
func (img Image) Bytes() []byte {
	out := make([]byte, 0, HeaderLength+len(img.Code)+len(img.RoData))
	out = WriteHeader(out)
	out = append(out, img.Code...)
	out = append(out, img.RoData...)
	return out
}

// WriteHeader appends the PIE header (magic plus zero padding to
// HeaderLength) to dst and returns the result.
func WriteHeader(dst []byte) []byte {
	dst = append(dst, HeaderPrefix[:]...)
	for len(dst) < HeaderLength {
		dst = append(dst, 0)
	}
	return dst
}

// VerifyHeader reports whether raw begins with the PIE magic bytes.
func VerifyHeader(raw []byte) bool {
	if len(raw) < len(HeaderPrefix) {
		return false
	}
	for i, b := range HeaderPrefix {
		if raw[i] != b {
			return false
		}
	}
	return true
}
