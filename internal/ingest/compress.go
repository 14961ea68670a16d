package ingest

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
)

// gunzip decompresses a gzip stream before handing it to parse.
func gunzip(parse ParseFunc) ParseFunc {
	return func(r io.Reader) (*Table, error) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			if err == io.EOF {
				return nil, ErrEmptyFile
			}
			return nil, fmt.Errorf("invalid gzip archive: %w", err)
		}
		defer zr.Close()
		return parse(zr)
	}
}

// unlz4 decompresses an LZ4 frame before handing it to parse.
func unlz4(parse ParseFunc) ParseFunc {
	return func(r io.Reader) (*Table, error) {
		return parse(lz4.NewReader(r))
	}
}
