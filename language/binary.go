package language

import "bytes"

// sniffLength is how many leading bytes are inspected for binary detection.
const sniffLength = 512

// IsBinaryContent reports whether data looks binary: a NUL byte within the
// first 512 bytes. Binary files are registered without content analysis.
func IsBinaryContent(data []byte) bool {
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	return bytes.IndexByte(data, 0) >= 0
}
