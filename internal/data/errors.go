package data

import "errors"

var (
	ErrRecordNotFound        = errors.New("data: record not found")
	ErrEdgeAlreadyRegistered = errors.New("data: edge device already registered")
	ErrEmailAlreadyExists    = errors.New("data: email already registered")
	ErrBindingAlreadyExists  = errors.New("data: binding already exists")
	ErrUserNotFound          = errors.New("data: user not found")
	ErrIOSDeviceNotFound     = errors.New("data: ios device not found")
)
