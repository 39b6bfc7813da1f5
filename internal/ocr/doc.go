// Package ocr reads measurement values off survey photos using Tesseract.
//
// A surveyor often photographs a tape, a ruler or a handwritten label next to
// the thing being measured. ReadMeasurement crops that region, prepares it
// for recognition and returns the first number found together with its unit,
// ready to prefill a dimension annotation's value and unit.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The default language is English ("eng"); any installed Tesseract language
// code can be passed in Options.Language.
//
// # Preprocessing
//
// Regions are upscaled when shorter than Options.MinHeight, converted to
// grayscale and binarized at Options.Threshold before recognition. Tesseract
// runs in single-line mode.
//
// # Parsing
//
// Recognized text is parsed with annotation.ParseMeasurement, the same parser
// used for calibration values, so a value read off a photo and a value typed
// by hand follow one decimal and grouping rule.
package ocr
