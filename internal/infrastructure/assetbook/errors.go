package assetbook

import "errors"

var (
	// ErrUnknownToken ...
	ErrUnknownToken = errors.New("token contract not found")
	// ErrTokenExists ...
	ErrTokenExists = errors.New("token contract already exists")
	// ErrInsufficientBalance ...
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance ...
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrNotApproved is returned when the operator is neither the owner nor an
	// approved operator of the asset.
	ErrNotApproved = errors.New("operator not approved")
	// ErrNotOwner ...
	ErrNotOwner = errors.New("token not owned by sender")
	// ErrNotMinter ...
	ErrNotMinter = errors.New("caller is not a minter")
	// ErrAlreadyMinted ...
	ErrAlreadyMinted = errors.New("token id already minted")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a non negative 256-bit integer")
)
