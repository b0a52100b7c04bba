package objinv

import (
	"bytes"
	"compress/zlib"
	"io"
)

// headerLineCount is the number of plaintext header lines that precede the
// compressed (or, in plaintext form, uncompressed) body.
const headerLineCount = 4

// splitHeader locates the end of the fourth newline-terminated line in buf
// and returns the header bytes (inclusive of the trailing newline) and the
// remainder. It returns an error if fewer than headerLineCount newlines are
// found.
func splitHeader(buf []byte) (header, rest []byte, err error) {
	idx := 0
	for i := 0; i < headerLineCount; i++ {
		nl := bytes.IndexByte(buf[idx:], '\n')
		if nl < 0 {
			return nil, nil, &FormatError{Reason: "fewer than four header lines found"}
		}
		idx += nl + 1
	}
	return buf[:idx], buf[idx:], nil
}

// compress takes plaintext bytes (a four-line header followed by an
// uncompressed body) and returns the wire form: the header bytes preserved
// verbatim, followed by the body zlib-compressed at the default level.
func compress(plaintext []byte) ([]byte, error) {
	header, body, err := splitHeader(plaintext)
	if err != nil {
		return nil, err
	}
	if err := checkHeaderVersion(header); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(header)

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, &CodecError{Op: "compress", Err: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &CodecError{Op: "compress", Err: err}
	}
	return buf.Bytes(), nil
}

// decompress takes wire-form bytes (a four-line plaintext header followed
// by a zlib-compressed body) and returns the fully plaintext form: the
// header bytes preserved verbatim, followed by the inflated body.
func decompress(wire []byte) ([]byte, error) {
	header, body, err := splitHeader(wire)
	if err != nil {
		return nil, err
	}
	if err := checkHeaderVersion(header); err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, &CodecError{Op: "decompress", Err: err}
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil {
		return nil, &CodecError{Op: "decompress", Err: err}
	}

	out := make([]byte, 0, len(header)+len(inflated))
	out = append(out, header...)
	out = append(out, inflated...)
	return out, nil
}

// checkHeaderVersion validates that header (the exact four header lines
// split off by splitHeader) announces the only inventory format version
// this codec implements. It returns FormatError if the header itself is
// unparseable and VersionError if it parses but names an unsupported
// version: decompressing a plaintext file can fail at either check
// depending on which one the bytes trip first.
func checkHeaderVersion(header []byte) error {
	hdr, _, err := parseHeader(header)
	if err != nil {
		return err
	}
	if hdr.VersionTag != supportedVersion {
		return &VersionError{Got: hdr.VersionTag}
	}
	return nil
}
