package extractor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os/exec"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DetectOCR reports whether the tesseract binary is present and runnable.
// Run once at process start; toolchain presence does not change during a
// process lifetime, so strategies consult the cached flag instead of
// re-probing per request.
func DetectOCR(binary string) bool {
	path, err := exec.LookPath(binary)
	if err != nil {
		return false
	}
	return exec.Command(path, "--version").Run() == nil
}

type ocrFunc func(ctx context.Context, img []byte) (string, error)

// ImageExtractor runs OCR over raster images. The capability flag is
// decided at startup and injected here, keeping the extractor itself
// stateless and testable with the flag forced either way.
type ImageExtractor struct {
	available bool
	binary    string
	run       ocrFunc // swapped out in tests
}

func NewImageExtractor(available bool, binary string) *ImageExtractor {
	e := &ImageExtractor{available: available, binary: binary}
	e.run = e.tesseract
	return e
}

func (e *ImageExtractor) MIMETypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/tiff", "image/bmp"}
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	if !e.available {
		// No attempt to decode the image when OCR is off the table.
		return &Result{Text: fmt.Sprintf(
			"[Image] %s\nOCR not available on this server (tesseract not installed).\nInstall tesseract-ocr to enable full text extraction from images.",
			filename)}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return &Result{Text: fmt.Sprintf("[Image] %s — OCR failed: %v", filename, err)}, nil
	}

	encoded, err := normalizeForOCR(img)
	if err != nil {
		return &Result{Text: fmt.Sprintf("[Image] %s — OCR failed: %v", filename, err)}, nil
	}

	text, err := e.run(ctx, encoded)
	if err != nil {
		return &Result{Text: fmt.Sprintf("[Image] %s — OCR failed: %v", filename, err)}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &Result{Text: fmt.Sprintf("[Image] %s\nNo text detected by OCR.", filename)}, nil
	}

	bounds := img.Bounds()
	return &Result{
		Text: fmt.Sprintf("[Image: %s]\n\n%s", filename, text),
		Metadata: map[string]string{
			"width":  strconv.Itoa(bounds.Dx()),
			"height": strconv.Itoa(bounds.Dy()),
		},
	}, nil
}

// normalizeForOCR re-encodes the image as PNG. The OCR engine needs
// full-color or grayscale input, so anything else (palette, CMYK, YCbCr)
// is flattened onto RGBA first.
func normalizeForOCR(img image.Image) ([]byte, error) {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Gray, *image.Gray16:
	default:
		rgba := image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		img = rgba
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tesseract pipes the normalized image through the CLI in fully automatic
// page segmentation mode.
func (e *ImageExtractor) tesseract(ctx context.Context, img []byte) (string, error) {
	cmd := exec.CommandContext(ctx, e.binary, "stdin", "stdout", "--psm", "3")
	cmd.Stdin = bytes.NewReader(img)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errOut.String()); msg != "" {
			return "", fmt.Errorf("tesseract: %s", msg)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return out.String(), nil
}
