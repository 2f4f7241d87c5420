package canvas

import "errors"

var (
	// ErrUnknownType indicates an unsupported canvas template.
	ErrUnknownType = errors.New("unknown canvas type")
	// ErrUnknownSection indicates a section name outside the section table.
	ErrUnknownSection = errors.New("unknown canvas section")
	// ErrSectionMismatch indicates a section that the template doesn't contain.
	ErrSectionMismatch = errors.New("section not part of canvas type")
	// ErrItemNotFound indicates the item doesn't exist on the canvas.
	ErrItemNotFound = errors.New("canvas item not found")
	// ErrProjectNotFound indicates the canvas' project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid item input.
	ErrInvalidInput = errors.New("invalid canvas input")
)
