package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidQuestionType is returned when a question type tag is not
	// one of the declared variants.
	ErrInvalidQuestionType = errors.New("invalid question type")

	// ErrInvalidImageType is returned when an image type is not in the
	// supported allow-list.
	ErrInvalidImageType = errors.New("invalid image type")
)
