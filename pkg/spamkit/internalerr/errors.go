package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrEmptyCorpus       = errors.New("empty corpus")
	ErrUntrained         = errors.New("model not trained")
	ErrDimensionMismatch = errors.New("feature vector length does not match vocabulary")
	ErrVocabularyFrozen  = errors.New("vocabulary already frozen")
	ErrUnknownLanguage   = errors.New("unknown language")
)
