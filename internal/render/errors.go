package render

import "errors"

var (
	ErrMarkdown = errors.New("markdown rendering failed")
	ErrDOCX     = errors.New("docx rendering failed")
	ErrPDFRead  = errors.New("reading rendered pdf failed")
)
