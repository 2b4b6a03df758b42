package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/pkg/api"
)

// FriendServiceHandler is implemented by the server side of FriendService.
type FriendServiceHandler interface {
	SendFriendRequest(context.Context, *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error)
	AcceptFriendRequest(context.Context, *connect.Request[api.AcceptFriendRequestRequest]) (*connect.Response[api.AcceptFriendRequestResponse], error)
	RejectFriendRequest(context.Context, *connect.Request[api.RejectFriendRequestRequest]) (*connect.Response[api.RejectFriendRequestResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
	GetFriends(context.Context, *connect.Request[api.GetFriendsRequest]) (*connect.Response[api.GetFriendsResponse], error)
}

// NewFriendServiceHandler returns the mount path and handler for svc.
func NewFriendServiceHandler(svc FriendServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + FriendServiceName + "/", route(map[string]http.Handler{
		FriendServiceSendFriendRequestProcedure:   connect.NewUnaryHandler(FriendServiceSendFriendRequestProcedure, svc.SendFriendRequest, opts...),
		FriendServiceAcceptFriendRequestProcedure: connect.NewUnaryHandler(FriendServiceAcceptFriendRequestProcedure, svc.AcceptFriendRequest, opts...),
		FriendServiceRejectFriendRequestProcedure: connect.NewUnaryHandler(FriendServiceRejectFriendRequestProcedure, svc.RejectFriendRequest, opts...),
		FriendServiceRemoveFriendProcedure:        connect.NewUnaryHandler(FriendServiceRemoveFriendProcedure, svc.RemoveFriend, opts...),
		FriendServiceGetFriendsProcedure:          connect.NewUnaryHandler(FriendServiceGetFriendsProcedure, svc.GetFriends, opts...),
	})
}

// FriendServiceClient is a client for FriendService.
type FriendServiceClient interface {
	SendFriendRequest(context.Context, *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error)
	AcceptFriendRequest(context.Context, *connect.Request[api.AcceptFriendRequestRequest]) (*connect.Response[api.AcceptFriendRequestResponse], error)
	RejectFriendRequest(context.Context, *connect.Request[api.RejectFriendRequestRequest]) (*connect.Response[api.RejectFriendRequestResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
	GetFriends(context.Context, *connect.Request[api.GetFriendsRequest]) (*connect.Response[api.GetFriendsResponse], error)
}

// NewFriendServiceClient creates a client for the FriendService at baseURL.
func NewFriendServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FriendServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &friendServiceClient{
		send:    connect.NewClient[api.SendFriendRequestRequest, api.SendFriendRequestResponse](httpClient, baseURL+FriendServiceSendFriendRequestProcedure, opts...),
		accept:  connect.NewClient[api.AcceptFriendRequestRequest, api.AcceptFriendRequestResponse](httpClient, baseURL+FriendServiceAcceptFriendRequestProcedure, opts...),
		reject:  connect.NewClient[api.RejectFriendRequestRequest, api.RejectFriendRequestResponse](httpClient, baseURL+FriendServiceRejectFriendRequestProcedure, opts...),
		remove:  connect.NewClient[api.RemoveFriendRequest, api.RemoveFriendResponse](httpClient, baseURL+FriendServiceRemoveFriendProcedure, opts...),
		friends: connect.NewClient[api.GetFriendsRequest, api.GetFriendsResponse](httpClient, baseURL+FriendServiceGetFriendsProcedure, opts...),
	}
}

type friendServiceClient struct {
	send    *connect.Client[api.SendFriendRequestRequest, api.SendFriendRequestResponse]
	accept  *connect.Client[api.AcceptFriendRequestRequest, api.AcceptFriendRequestResponse]
	reject  *connect.Client[api.RejectFriendRequestRequest, api.RejectFriendRequestResponse]
	remove  *connect.Client[api.RemoveFriendRequest, api.RemoveFriendResponse]
	friends *connect.Client[api.GetFriendsRequest, api.GetFriendsResponse]
}

func (c *friendServiceClient) SendFriendRequest(ctx context.Context, req *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error) {
	return c.send.CallUnary(ctx, req)
}

func (c *friendServiceClient) AcceptFriendRequest(ctx context.Context, req *connect.Request[api.AcceptFriendRequestRequest]) (*connect.Response[api.AcceptFriendRequestResponse], error) {
	return c.accept.CallUnary(ctx, req)
}

func (c *friendServiceClient) RejectFriendRequest(ctx context.Context, req *connect.Request[api.RejectFriendRequestRequest]) (*connect.Response[api.RejectFriendRequestResponse], error) {
	return c.reject.CallUnary(ctx, req)
}

func (c *friendServiceClient) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return c.remove.CallUnary(ctx, req)
}

func (c *friendServiceClient) GetFriends(ctx context.Context, req *connect.Request[api.GetFriendsRequest]) (*connect.Response[api.GetFriendsResponse], error) {
	return c.friends.CallUnary(ctx, req)
}
