package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Bernardstanislas/secretariat/internal/constants"
)

var (
	// ErrMemberNotFound means the identifier matches no active community member.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidEmail is returned for a syntactically invalid login address.
	ErrInvalidEmail = errors.New("invalid email")
)

// ValidationError carries every field-level message of a rejected form, in order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// DuplicateProfileError means a profile for Username already exists upstream.
type DuplicateProfileError struct {
	Username string
	Err      error
}

func (e *DuplicateProfileError) Error() string {
	return fmt.Sprintf(constants.MsgProfileExists, e.Username)
}

func (e *DuplicateProfileError) Unwrap() error {
	return e.Err
}

// PublishError is any other failure while publishing the profile of Username.
type PublishError struct {
	Username string
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf(constants.MsgPublishFailed, e.Username)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
