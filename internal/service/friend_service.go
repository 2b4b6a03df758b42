package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/internal/friends"
	"github.com/spendwise-app/SpendWise/pkg/api"
	"github.com/spendwise-app/SpendWise/pkg/api/apiconnect"
)

// FriendService implements the Connect FriendService.
type FriendService struct {
	friends *friends.Manager
}

var _ apiconnect.FriendServiceHandler = (*FriendService)(nil)

// NewFriendService creates a new FriendService.
func NewFriendService(manager *friends.Manager) *FriendService {
	return &FriendService{friends: manager}
}

// SendFriendRequest asks the identity named by email or ID to become a friend.
func (s *FriendService) SendFriendRequest(ctx context.Context, req *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	target := strings.TrimSpace(req.Msg.EmailOrID)
	if target == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("emailOrId is required"))
	}

	receiver, err := s.friends.SendRequest(ctx, userID, target)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SendFriendRequestResponse{
		Friend: &api.Friend{ID: receiver.ID, Email: receiver.Email, Name: receiver.DisplayName},
	}), nil
}

// AcceptFriendRequest accepts a pending request from SenderID.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, req *connect.Request[api.AcceptFriendRequestRequest]) (*connect.Response[api.AcceptFriendRequestResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.friends.AcceptRequest(ctx, userID, req.Msg.SenderID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.AcceptFriendRequestResponse{}), nil
}

// RejectFriendRequest drops a pending request from SenderID. Rejecting twice is fine.
func (s *FriendService) RejectFriendRequest(ctx context.Context, req *connect.Request[api.RejectFriendRequestRequest]) (*connect.Response[api.RejectFriendRequestResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.friends.RejectRequest(ctx, userID, req.Msg.SenderID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RejectFriendRequestResponse{}), nil
}

// RemoveFriend ends a friendship on both sides.
func (s *FriendService) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.friends.RemoveFriend(ctx, userID, req.Msg.FriendID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RemoveFriendResponse{}), nil
}

// GetFriends lists friends and pending requests in both directions.
func (s *FriendService) GetFriends(ctx context.Context, _ *connect.Request[api.GetFriendsRequest]) (*connect.Response[api.GetFriendsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	overview, err := s.friends.Overview(ctx, userID)
	if err != nil {
		slog.Error("Failed to load friends", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetFriendsResponse{
		Friends:  toFriends(overview.Friends),
		Requests: toFriends(overview.Requests),
		Sent:     toFriends(overview.Sent),
	}), nil
}
