package service

import "errors"

var (
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrPostFieldsRequired = errors.New("text and userId are required")
	ErrUserNotFound       = errors.New("referenced user does not exist")
	ErrNotFound           = errors.New("not found")
)
