package material

import "errors"

var (
	ErrMaterialNotFound  = errors.New("material not found")
	ErrInsufficientStock = errors.New("insufficient stock for outbound movement")
	ErrMaterialExists    = errors.New("material with this name already exists for the site")
)
