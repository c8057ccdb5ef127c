// Package common holds errors shared across the domain packages.
package common

import "errors"

var (
	// ErrAccountNotFound is returned when a command targets an account with an empty stream.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists is returned when creating an account whose stream is non-empty.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrTransferNotFound is returned when a command targets a transfer with an empty stream.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrTransferAlreadyExists is returned when creating a transfer whose stream is non-empty.
	ErrTransferAlreadyExists = errors.New("transfer already exists")
	// ErrAmountMustBePositive is returned when a command carries a non-positive amount.
	ErrAmountMustBePositive = errors.New("amount must be positive")
)
