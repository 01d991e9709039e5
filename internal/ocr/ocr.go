package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	scanimg "github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// DefaultMinConfidence is the mean word confidence at or above which a page
// is reported legible.
const DefaultMinConfidence = 0.6

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one recognized word with its location and confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is Tesseract's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result is the outcome of reading a page.
type Result struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Words holds the non-empty recognized words. It may be empty when
	// bounding boxes are unavailable; FullText is still filled.
	Words []Word `json:"words"`

	// MeanConfidence averages the confidence of Words, or 0 with no words.
	MeanConfidence float64 `json:"mean_confidence"`

	// Legible is true when at least one word was found and MeanConfidence
	// reaches the reader's threshold.
	Legible bool `json:"legible"`
}

// Reader runs Tesseract on in-memory images.
//
// A Reader holds only configuration; each call opens its own Tesseract
// client, so a Reader may be shared between goroutines.
type Reader struct {
	language       string
	tessdataPrefix string
	minConfidence  float64
}

// NewReader returns a Reader for the given Tesseract language code
// (DefaultLanguage if empty). tessdataPrefix, when not empty, overrides the
// directory Tesseract loads language data from.
func NewReader(language, tessdataPrefix string) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	return &Reader{
		language:       language,
		tessdataPrefix: tessdataPrefix,
		minConfidence:  DefaultMinConfidence,
	}
}

// Language returns the configured language code.
func (r *Reader) Language() string {
	return r.language
}

// Read recognizes the text of img, typically a rectified page.
//
// The image is handed to Tesseract as PNG bytes; nothing is written to
// disk. Returns a validation error for an empty image and an internal error
// when Tesseract cannot be initialized or fails.
func (r *Reader) Read(img image.Image) (*Result, error) {
	if err := scanimg.Validate(img); err != nil {
		return nil, err
	}
	data, err := scanimg.PNGBytes(img)
	if err != nil {
		return nil, scanerr.Internal("failed to encode page for tesseract", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.tessdataPrefix); err != nil {
			return nil, scanerr.Internal("failed to set tesseract data path", err)
		}
	}
	if err := client.SetLanguage(r.language); err != nil {
		return nil, scanerr.Internal(fmt.Sprintf("failed to set tesseract language %q", r.language), err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, scanerr.Internal("failed to load page into tesseract", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, scanerr.Internal("tesseract recognition failed", err)
	}

	result := &Result{FullText: text, Words: []Word{}}

	// Return just text if boxes fail
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}

	var sum float64
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		conf := box.Confidence / 100.0
		sum += conf
		result.Words = append(result.Words, Word{
			Text:       word,
			Confidence: conf,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	if n := len(result.Words); n > 0 {
		result.MeanConfidence = sum / float64(n)
		result.Legible = result.MeanConfidence >= r.minConfidence
	}
	return result, nil
}

// ReadRegion recognizes the text inside region of img. Word bounds in the
// result are relative to img, not to the region.
//
// For example, if the region starts at (100, 50) and a word is found at
// (10, 20) within it, the returned bounds start at (110, 70).
func (r *Reader) ReadRegion(img image.Image, region image.Rectangle) (*Result, error) {
	if err := scanimg.Validate(img); err != nil {
		return nil, err
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, scanerr.Validation("OCR region does not overlap the image", nil)
	}

	result, err := r.Read(imaging.Crop(img, region))
	if err != nil {
		return nil, err
	}

	for i := range result.Words {
		result.Words[i].Bounds.X1 += region.Min.X
		result.Words[i].Bounds.Y1 += region.Min.Y
		result.Words[i].Bounds.X2 += region.Min.X
		result.Words[i].Bounds.Y2 += region.Min.Y
	}
	return result, nil
}
