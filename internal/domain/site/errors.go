package site

import "errors"

var (
	ErrSiteNotFound   = errors.New("site not found")
	ErrSiteCodeExists = errors.New("site code already registered")
)
