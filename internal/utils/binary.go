package utils

import (
	"io"
	"os"
)

// sniffLength defines the maximum number of bytes read when detecting binary content.
const sniffLength = 8192

// IsBinary reports whether the provided byte slice contains a NUL byte. Only
// the raw bytes are inspected; text in any encoding without NUL passes.
func IsBinary(data []byte) bool {
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary reads up to sniffLength bytes from the file at path and reports
// whether that prefix contains a NUL byte. Bytes past the prefix are never
// inspected. The error is non-nil when the file cannot be opened or read.
func IsFileBinary(path string) (bool, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return false, readError
	}
	return IsBinary(buffer[:bytesRead]), nil
}
