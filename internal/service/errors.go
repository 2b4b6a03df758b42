package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/internal/friends"
	"github.com/spendwise-app/SpendWise/internal/ledger"
)

// connectError maps domain errors to Connect codes.
// Anything unrecognised is an internal error.
func connectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, friends.ErrNotFound),
		errors.Is(err, ledger.ErrExpenseNotFound),
		errors.Is(err, ledger.ErrIdentityNotFound):
		return connect.NewError(connect.CodeNotFound, err)

	case errors.Is(err, friends.ErrAlreadyRequestedOrFriends):
		return connect.NewError(connect.CodeAlreadyExists, err)

	case errors.Is(err, friends.ErrNoSuchRequest),
		errors.Is(err, friends.ErrNotFriends),
		errors.Is(err, ledger.ErrNotAParticipant),
		errors.Is(err, ledger.ErrShareAlreadyPaid),
		errors.Is(err, ledger.ErrNotFriends):
		return connect.NewError(connect.CodeFailedPrecondition, err)

	case errors.Is(err, friends.ErrSelfRequest),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrDuplicateFriend),
		errors.Is(err, ledger.ErrSelfShare):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	return connect.NewError(connect.CodeInternal, err)
}
