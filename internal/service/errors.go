package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
)

const (
	MsgInvalidCredentials = "Unable to authenticate with provided credentials."
	MsgEmailTaken         = "user with this email already exists."
	MsgBlank              = "This field may not be blank."
)
