// Package apiconnect wires the SpendWise services to Connect: procedure names,
// handler constructors and typed clients, all speaking api.Codec.
package apiconnect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/pkg/api"
)

// Fully-qualified service names.
const (
	AuthServiceName       = "spendwise.v1.AuthService"
	FriendServiceName     = "spendwise.v1.FriendService"
	SettlementServiceName = "spendwise.v1.SettlementService"
)

// Procedure paths, in the form "/<service>/<method>".
const (
	AuthServiceRegisterProcedure       = "/spendwise.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/spendwise.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/spendwise.v1.AuthService/GetCurrentUser"

	FriendServiceSendFriendRequestProcedure   = "/spendwise.v1.FriendService/SendFriendRequest"
	FriendServiceAcceptFriendRequestProcedure = "/spendwise.v1.FriendService/AcceptFriendRequest"
	FriendServiceRejectFriendRequestProcedure = "/spendwise.v1.FriendService/RejectFriendRequest"
	FriendServiceRemoveFriendProcedure        = "/spendwise.v1.FriendService/RemoveFriend"
	FriendServiceGetFriendsProcedure          = "/spendwise.v1.FriendService/GetFriends"

	SettlementServiceCreateSharedExpenseProcedure = "/spendwise.v1.SettlementService/CreateSharedExpense"
	SettlementServiceListSharedWithMeProcedure    = "/spendwise.v1.SettlementService/ListSharedWithMe"
	SettlementServiceAcceptSettlementProcedure    = "/spendwise.v1.SettlementService/AcceptSettlement"
	SettlementServiceRejectSettlementProcedure    = "/spendwise.v1.SettlementService/RejectSettlement"
	SettlementServiceGetInboxProcedure            = "/spendwise.v1.SettlementService/GetInbox"
	SettlementServiceGetBalancesProcedure         = "/spendwise.v1.SettlementService/GetBalances"
)

// PublicProcedures can be called without a bearer token.
var PublicProcedures = map[string]bool{
	AuthServiceRegisterProcedure: true,
	AuthServiceLoginProcedure:    true,
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

// route serves each procedure from its handler and 404s the rest.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
