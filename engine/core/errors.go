package core

import (
	"errors"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoWindow      = errors.New("window constructor returned no window")
	ErrNoRenderer    = errors.New("renderer constructor returned no renderer")
)
