package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/pkg/api"
)

// SettlementServiceHandler is implemented by the server side of SettlementService.
type SettlementServiceHandler interface {
	CreateSharedExpense(context.Context, *connect.Request[api.CreateSharedExpenseRequest]) (*connect.Response[api.CreateSharedExpenseResponse], error)
	ListSharedWithMe(context.Context, *connect.Request[api.ListSharedWithMeRequest]) (*connect.Response[api.ListSharedWithMeResponse], error)
	AcceptSettlement(context.Context, *connect.Request[api.AcceptSettlementRequest]) (*connect.Response[api.AcceptSettlementResponse], error)
	RejectSettlement(context.Context, *connect.Request[api.RejectSettlementRequest]) (*connect.Response[api.RejectSettlementResponse], error)
	GetInbox(context.Context, *connect.Request[api.GetInboxRequest]) (*connect.Response[api.GetInboxResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewSettlementServiceHandler returns the mount path and handler for svc.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SettlementServiceName + "/", route(map[string]http.Handler{
		SettlementServiceCreateSharedExpenseProcedure: connect.NewUnaryHandler(SettlementServiceCreateSharedExpenseProcedure, svc.CreateSharedExpense, opts...),
		SettlementServiceListSharedWithMeProcedure:    connect.NewUnaryHandler(SettlementServiceListSharedWithMeProcedure, svc.ListSharedWithMe, opts...),
		SettlementServiceAcceptSettlementProcedure:    connect.NewUnaryHandler(SettlementServiceAcceptSettlementProcedure, svc.AcceptSettlement, opts...),
		SettlementServiceRejectSettlementProcedure:    connect.NewUnaryHandler(SettlementServiceRejectSettlementProcedure, svc.RejectSettlement, opts...),
		SettlementServiceGetInboxProcedure:            connect.NewUnaryHandler(SettlementServiceGetInboxProcedure, svc.GetInbox, opts...),
		SettlementServiceGetBalancesProcedure:         connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...),
	})
}

// SettlementServiceClient is a client for SettlementService.
type SettlementServiceClient interface {
	CreateSharedExpense(context.Context, *connect.Request[api.CreateSharedExpenseRequest]) (*connect.Response[api.CreateSharedExpenseResponse], error)
	ListSharedWithMe(context.Context, *connect.Request[api.ListSharedWithMeRequest]) (*connect.Response[api.ListSharedWithMeResponse], error)
	AcceptSettlement(context.Context, *connect.Request[api.AcceptSettlementRequest]) (*connect.Response[api.AcceptSettlementResponse], error)
	RejectSettlement(context.Context, *connect.Request[api.RejectSettlementRequest]) (*connect.Response[api.RejectSettlementResponse], error)
	GetInbox(context.Context, *connect.Request[api.GetInboxRequest]) (*connect.Response[api.GetInboxResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewSettlementServiceClient creates a client for the SettlementService at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		create:   connect.NewClient[api.CreateSharedExpenseRequest, api.CreateSharedExpenseResponse](httpClient, baseURL+SettlementServiceCreateSharedExpenseProcedure, opts...),
		shared:   connect.NewClient[api.ListSharedWithMeRequest, api.ListSharedWithMeResponse](httpClient, baseURL+SettlementServiceListSharedWithMeProcedure, opts...),
		accept:   connect.NewClient[api.AcceptSettlementRequest, api.AcceptSettlementResponse](httpClient, baseURL+SettlementServiceAcceptSettlementProcedure, opts...),
		reject:   connect.NewClient[api.RejectSettlementRequest, api.RejectSettlementResponse](httpClient, baseURL+SettlementServiceRejectSettlementProcedure, opts...),
		inbox:    connect.NewClient[api.GetInboxRequest, api.GetInboxResponse](httpClient, baseURL+SettlementServiceGetInboxProcedure, opts...),
		balances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
	}
}

type settlementServiceClient struct {
	create   *connect.Client[api.CreateSharedExpenseRequest, api.CreateSharedExpenseResponse]
	shared   *connect.Client[api.ListSharedWithMeRequest, api.ListSharedWithMeResponse]
	accept   *connect.Client[api.AcceptSettlementRequest, api.AcceptSettlementResponse]
	reject   *connect.Client[api.RejectSettlementRequest, api.RejectSettlementResponse]
	inbox    *connect.Client[api.GetInboxRequest, api.GetInboxResponse]
	balances *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
}

func (c *settlementServiceClient) CreateSharedExpense(ctx context.Context, req *connect.Request[api.CreateSharedExpenseRequest]) (*connect.Response[api.CreateSharedExpenseResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSharedWithMe(ctx context.Context, req *connect.Request[api.ListSharedWithMeRequest]) (*connect.Response[api.ListSharedWithMeResponse], error) {
	return c.shared.CallUnary(ctx, req)
}

func (c *settlementServiceClient) AcceptSettlement(ctx context.Context, req *connect.Request[api.AcceptSettlementRequest]) (*connect.Response[api.AcceptSettlementResponse], error) {
	return c.accept.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RejectSettlement(ctx context.Context, req *connect.Request[api.RejectSettlementRequest]) (*connect.Response[api.RejectSettlementResponse], error) {
	return c.reject.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetInbox(ctx context.Context, req *connect.Request[api.GetInboxRequest]) (*connect.Response[api.GetInboxResponse], error) {
	return c.inbox.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.balances.CallUnary(ctx, req)
}
