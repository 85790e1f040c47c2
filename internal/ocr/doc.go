// Package ocr is a detector backend that reports recognised words as
// objects, using the Tesseract OCR engine via gosseract/v2.
//
// Every word Tesseract finds becomes one detection: the word is the label,
// Tesseract's 0-100 confidence divided by 100 is the score, and the word's
// bounding box is the box. Blank words are dropped.
//
// # Build Requirements
//
// gosseract needs cgo plus the Tesseract and Leptonica libraries:
//
//	Ubuntu/Debian: apt-get install libtesseract-dev libleptonica-dev tesseract-ocr-eng
//	macOS: brew install tesseract
//
// Binaries built with CGO_ENABLED=0 still compile; Open then fails with
// ErrNotBuilt and the provider falls through to its next candidate.
//
// # Training Data
//
// Language data is looked up in Options.TessdataDir when set, otherwise in
// Tesseract's compiled-in default or $TESSDATA_PREFIX.
//
// # Small Text
//
// Tesseract is unreliable below roughly 20 px cap height. Options.Scale
// enlarges the image before recognition (Lanczos resampling) and the boxes
// are scaled back afterwards.
//
// # Thread Safety
//
// A gosseract client is not safe for concurrent use; Detector serialises
// recognition on one client.
package ocr
