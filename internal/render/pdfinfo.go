package render

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount reads the number of pages of a rendered PDF.
func PageCount(data []byte) (n int, err error) {
	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: %v", ErrPDFRead, r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPDFRead, err)
	}
	return reader.NumPage(), nil
}
