package controllers

import "errors"

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("service not configured")
)
