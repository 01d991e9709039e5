// Package ocr checks whether a rectified page is legible using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). A page is
// read from memory, and the mean word confidence decides whether it is
// clear enough to upload or should be retaken.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The language defaults to English ("eng"). Other Tesseract language codes
// ("deu", "fra", "spa", ...) work when their data is installed.
//
// # Performance Considerations
//
// OCR is far slower than rectification. Read a page once after the user
// confirms the corners, not while they drag.
//
// # Error Handling
//
// Tesseract initialization and recognition failures are returned as scanerr
// internal errors. If word bounding boxes are unavailable, Read still returns
// the full text with no words, and the page is reported not legible.
package ocr
