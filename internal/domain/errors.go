package domain

import "errors"

var (
	ErrMissingReference   = errors.New("referenced step produced no nodes")
	ErrMissingSourceImage = errors.New("plugin operation requires a source image")
	ErrUnknownNodeKind    = errors.New("unknown node kind")
	ErrEmptyPlan          = errors.New("instruction plan has no steps")
	ErrNodeNotFound       = errors.New("node not found")
)
