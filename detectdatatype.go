package pwas

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

// Ordered so that the longest signatures are tested first. Block gzip (.bgz,
// the Hail export default) shares the gzip signature.
var byteCodeSigs = []struct {
	DataType
	sig []byte
}{
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
	{DataTypeZ, []byte{0x1f, 0x9d}},
}

// DetectDataType inspects the leading bytes of a stream without consuming
// them. Byte code signatures from https://stackoverflow.com/a/19127748/199475
func DetectDataType(br *bufio.Reader) (DataType, error) {
	head, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

Outer:
	for _, candidate := range byteCodeSigs {
		if len(head) < len(candidate.sig) {
			continue
		}
		for position := range candidate.sig {
			if head[position] != candidate.sig[position] {
				continue Outer
			}
		}
		return candidate.DataType, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser wraps rc with a decompressor matching its magic
// bytes. Closing the result closes rc.
func MaybeDecompressReadCloser(rc io.ReadCloser) (io.ReadCloser, DataType, error) {
	br := bufio.NewReader(rc)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, err
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		// gzip.Reader handles the concatenated members of block gzip files
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, dt, err
		}
		r = gz
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, fmt.Errorf("reading first zip entry: %w", err)
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(br)
	case DataTypeXZ:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, err
		}
		r = xr
	case DataTypeZ:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, dt, err
		}
		r = zr
	default:
		r = br
	}

	return &decompressedReadCloser{Reader: r, underlying: rc}, dt, nil
}

// decompressedReadCloser "upgrades" readers that don't need to be closed, and
// closes the underlying source when done.
type decompressedReadCloser struct {
	io.Reader
	underlying io.Closer
}

func (c *decompressedReadCloser) Close() error {
	if cl, ok := c.Reader.(io.Closer); ok {
		cl.Close()
	}

	return c.underlying.Close()
}
