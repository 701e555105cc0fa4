// Package errs holds the error taxonomy shared by the download pipeline.
package errs

import (
	"context"
	"errors"
)

// Sentinel errors. Wrap them with fmt.Errorf("...: %w", ErrX) to keep context.
var (
	ErrInvalidURL           = errors.New("invalid URL")
	ErrNoMatchingFormats    = errors.New("no requested formats available")
	ErrSourceUnavailable    = errors.New("source unavailable")
	ErrConversionFailed     = errors.New("conversion failed")
	ErrCancelled            = errors.New("cancelled")
	ErrConverterUnavailable = errors.New("converter unavailable")
	ErrEmptyPlaylist        = errors.New("empty playlist")
)

// Class groups errors by how the pipeline reacts to them.
type Class int

const (
	Unclassified Class = iota
	InvalidURL
	NoMatchingFormats
	SourceUnavailable
	ConversionFailed
	Cancelled
	ConverterUnavailable
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case InvalidURL:
		return "invalid-url"
	case NoMatchingFormats:
		return "no-matching-formats"
	case SourceUnavailable:
		return "source-unavailable"
	case ConversionFailed:
		return "conversion-failed"
	case Cancelled:
		return "cancelled"
	case ConverterUnavailable:
		return "converter-unavailable"
	default:
		return "unclassified"
	}
}

// Classify maps an error onto its class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Unclassified
	case errors.Is(err, ErrCancelled),
		errors.Is(err, context.Canceled):
		return Cancelled
	case errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrEmptyPlaylist):
		return InvalidURL
	case errors.Is(err, ErrNoMatchingFormats):
		return NoMatchingFormats
	case errors.Is(err, ErrSourceUnavailable):
		return SourceUnavailable
	case errors.Is(err, ErrConversionFailed):
		return ConversionFailed
	case errors.Is(err, ErrConverterUnavailable):
		return ConverterUnavailable
	}
	return Unclassified
}

// ItemScoped reports whether an error only affects the item it was raised for.
func ItemScoped(err error) bool {
	switch Classify(err) {
	case InvalidURL, NoMatchingFormats, SourceUnavailable, ConversionFailed:
		return true
	}
	return false
}

// Message returns the user-facing text for an error.
func Message(err error) string {
	switch Classify(err) {
	case InvalidURL:
		if errors.Is(err, ErrEmptyPlaylist) {
			return "The playlist is empty or could not be read."
		}
		return "Could not recognize the provided URL. Please, try again."
	case NoMatchingFormats:
		return err.Error()
	case SourceUnavailable:
		return "The video or one of its streams is no longer available."
	case ConversionFailed:
		return "Could not convert the downloaded files."
	case ConverterUnavailable:
		return "FFmpeg is required, but it doesn't appear to be installed.\n" +
			"You can install FFmpeg at https://ffmpeg.org/download.html."
	case Cancelled:
		return "Cancelled."
	}
	return "Something went wrong. :(\nPlease, try again."
}
