package workbook

import "errors"

var (
	ErrUnreadable    = errors.New("unreadable workbook")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidCell   = errors.New("invalid cell")
)
