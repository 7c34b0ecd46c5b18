// Package export derives download artifacts from rendered snapshots.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ImageToPDF wraps one rendered raster image into a single-page PDF. No page
// content is generated locally; the image is embedded as-is.
func ImageToPDF(img []byte) ([]byte, error) {
	if len(img) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, []io.Reader{bytes.NewReader(img)}, nil, nil); err != nil {
		return nil, fmt.Errorf("image to pdf: %w", err)
	}
	return out.Bytes(), nil
}
