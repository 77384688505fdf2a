// Package imaging decodes digitized page scans into a form the OCR
// engine accepts.
//
// Government publications digitized in bulk ship page scans as bi-level
// TIFFs (often CCITT Group 3/4 fax compressed) or as bare fax strips.
// This package normalizes all of them to PNG bytes for Tesseract.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/ccitt"
	"golang.org/x/image/tiff"
)

// Default width of a fax strip in pixels, per the CCITT standard.
const defaultFaxColumns = 1728

var (
	tiffLittleEndian = []byte("II*\x00")
	tiffBigEndian    = []byte("MM\x00*")
	pngMagic         = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic        = []byte{0xff, 0xd8, 0xff}
)

// ToPNG converts sidecar scan data to PNG bytes. PNG input passes
// through unchanged; JPEG and TIFF are decoded and re-encoded; bare
// Group 3/4 fax strips (.g3/.g4) are decoded at the standard fax width.
func ToPNG(data []byte, ext string) ([]byte, error) {
	switch ext {
	case ".g3":
		img, err := DecodeFax(data, defaultFaxColumns, ccitt.Group3)
		if err != nil {
			return nil, err
		}
		return EncodePNG(img)
	case ".g4":
		img, err := DecodeFax(data, defaultFaxColumns, ccitt.Group4)
		if err != nil {
			return nil, err
		}
		return EncodePNG(img)
	}

	switch {
	case bytes.HasPrefix(data, pngMagic):
		return data, nil
	case bytes.HasPrefix(data, jpegMagic):
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode jpeg scan: %w", err)
		}
		return EncodePNG(img)
	case bytes.HasPrefix(data, tiffLittleEndian) || bytes.HasPrefix(data, tiffBigEndian):
		img, err := tiff.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode tiff scan: %w", err)
		}
		return EncodePNG(img)
	}

	return nil, fmt.Errorf("unrecognized scan format (ext %q)", ext)
}

// DecodeFax decodes a bare CCITT Group 3/4 fax strip into a grayscale
// image. Height is auto-detected from the data. A set bit is white, per
// the standard bit interpretation (BlackIs1 false).
func DecodeFax(data []byte, columns int, sf ccitt.SubFormat) (*image.Gray, error) {
	if columns <= 0 {
		columns = defaultFaxColumns
	}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, ccitt.AutoDetectHeight, nil)
	packed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode ccitt fax: %w", err)
	}

	bytesPerRow := (columns + 7) / 8
	if bytesPerRow == 0 || len(packed)%bytesPerRow != 0 {
		return nil, fmt.Errorf("ccitt fax: %d decoded bytes do not fit %d columns", len(packed), columns)
	}
	rows := len(packed) / bytesPerRow

	img := image.NewGray(image.Rect(0, 0, columns, rows))
	for y := 0; y < rows; y++ {
		rowStart := y * bytesPerRow
		for x := 0; x < columns; x++ {
			bit := packed[rowStart+x/8] >> (7 - uint(x%8)) & 1
			v := byte(0x00)
			if bit == 1 {
				v = 0xFF
			}
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img, nil
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
