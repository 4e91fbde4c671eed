package language

import "testing"

func Test_IsBinaryContent_SourceText(t *testing.T) {
	content := []byte("export function main() {\n  return 42;\n}\n")
	if IsBinaryContent(content) {
		t.Error("expected source text to not be detected as binary")
	}
}

func Test_IsBinaryContent_NullByte(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	if !IsBinaryContent(content) {
		t.Error("expected content with a NUL byte to be detected as binary")
	}
}

func Test_IsBinaryContent_EmptyFile(t *testing.T) {
	if IsBinaryContent(nil) {
		t.Error("expected empty content to not be detected as binary")
	}
}

func Test_IsBinaryContent_NullBeyondSniffWindow(t *testing.T) {
	content := make([]byte, 1024)
	for i := range content {
		content[i] = 'a'
	}
	content[800] = 0x00
	if IsBinaryContent(content) {
		t.Error("expected NUL past the first 512 bytes to be ignored")
	}
}
