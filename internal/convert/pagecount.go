// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"

	rpdf "rsc.io/pdf"
)

// PageCount returns the number of pages in the PDF held by data.
func PageCount(data []byte) (n int, err error) {
	// rsc.io/pdf panics on some malformed inputs instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("reading PDF: %v", r)
		}
	}()

	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("reading PDF: %w", err)
	}
	return doc.NumPage(), nil
}
