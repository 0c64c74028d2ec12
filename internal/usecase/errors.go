package usecase

import "errors"

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidField    = errors.New("invalid field")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrNotConfigured   = errors.New("summarization is not configured")
	ErrProviderFailure = errors.New("summarization provider failed")
	ErrInternal        = errors.New("internal error")
)
