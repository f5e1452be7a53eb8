package slidegen

import "errors"

var (
	// ErrTemplateNotFound is returned when a template name is unknown.
	ErrTemplateNotFound = errors.New("slidegen: template not found")

	// ErrTemplateInvalid is returned when a template fails load-time validation.
	ErrTemplateInvalid = errors.New("slidegen: invalid template")

	// ErrUnsupportedFormat is returned for unrecognized source file formats.
	ErrUnsupportedFormat = errors.New("slidegen: unsupported source format")

	// ErrInvalidDeck is returned when deck data fails structural validation.
	ErrInvalidDeck = errors.New("slidegen: invalid deck data")

	// ErrNoSlides is returned when a deck contains no slides after parsing.
	ErrNoSlides = errors.New("slidegen: deck contains no slides")

	// ErrUploadFailed is returned when an oversized image cannot be
	// uploaded to the asset store.
	ErrUploadFailed = errors.New("slidegen: asset upload failed")

	// ErrBatchFailed is returned when a batch submission to the sink fails.
	// The generation run is terminal at that point; earlier batches are
	// not undone.
	ErrBatchFailed = errors.New("slidegen: batch submission failed")

	// ErrSinkRequired is returned when Generate is called without a
	// configured sink client.
	ErrSinkRequired = errors.New("slidegen: sink client required")

	// ErrStoreClosed is returned when operating on a closed run store.
	ErrStoreClosed = errors.New("slidegen: store is closed")
)
