package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/internal/auth"
	"github.com/spendwise-app/SpendWise/internal/friends"
	"github.com/spendwise-app/SpendWise/internal/ledger"
	"github.com/spendwise-app/SpendWise/internal/metrics"
	"github.com/spendwise-app/SpendWise/internal/middleware"
	"github.com/spendwise-app/SpendWise/internal/notify"
	"github.com/spendwise-app/SpendWise/internal/storage/sqlite"
	"github.com/spendwise-app/SpendWise/pkg/api"
	"github.com/spendwise-app/SpendWise/pkg/api/apiconnect"
)

type testServer struct {
	auth        apiconnect.AuthServiceClient
	friends     apiconnect.FriendServiceClient
	settlements apiconnect.SettlementServiceClient
	dispatcher  *notify.Dispatcher
}

// setupTestServer wires every service the way the server does, against a
// temporary database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.Nop()
	dispatcher := notify.NewDispatcher(notify.NewRegistry(), m, time.Second)
	friendManager := friends.NewManager(store, dispatcher, m)
	settlementLedger := ledger.NewLedger(store, friendManager, dispatcher, m, true)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewFriendServiceHandler(NewFriendService(friendManager), interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(settlementLedger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		dispatcher.Wait()
		store.Close()
	})

	return &testServer{
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		friends:     apiconnect.NewFriendServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		dispatcher:  dispatcher,
	}
}

type session struct {
	id    string
	token string
}

func (s *testServer) register(t *testing.T, email, name string) session {
	t.Helper()
	resp, err := s.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return session{id: resp.Msg.User.ID, token: resp.Msg.Token}
}

// befriend makes a and b friends through the API.
func (s *testServer) befriend(t *testing.T, a, b session) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.friends.SendFriendRequest(ctx, as(a, &api.SendFriendRequestRequest{EmailOrID: b.id})); err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if _, err := s.friends.AcceptFriendRequest(ctx, as(b, &api.AcceptFriendRequestRequest{SenderID: a.id})); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}
}

// as builds a request authenticated as s.
func as[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var ce *connect.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if ce.Code() != want {
		t.Errorf("expected code %v, got %v (%v)", want, ce.Code(), err)
	}
}

func TestAuthService(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	alice := s.register(t, "Alice@Example.com", "Alice")
	if alice.token == "" {
		t.Fatal("expected a token")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "alice@example.com", DisplayName: "Other", Password: "correct-horse",
		}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "weak@example.com", DisplayName: "Weak", Password: "short",
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "correct-horse",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != alice.id {
			t.Errorf("expected %s, got %s", alice.id, resp.Msg.User.ID)
		}

		_, err = s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "wrong-password",
		}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("current user", func(t *testing.T) {
		resp, err := s.auth.GetCurrentUser(ctx, as(alice, &api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if resp.Msg.User.DisplayName != "Alice" || resp.Msg.User.Email != "alice@example.com" {
			t.Errorf("unexpected user: %+v", resp.Msg.User)
		}

		_, err = s.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestFriendService(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	alice := s.register(t, "alice@example.com", "Alice")
	bob := s.register(t, "bob@example.com", "Bob")

	resp, err := s.friends.SendFriendRequest(ctx, as(alice, &api.SendFriendRequestRequest{EmailOrID: "bob@example.com"}))
	if err != nil {
		t.Fatalf("SendFriendRequest failed: %v", err)
	}
	if resp.Msg.Friend.ID != bob.id {
		t.Errorf("expected receiver %s, got %s", bob.id, resp.Msg.Friend.ID)
	}

	_, err = s.friends.SendFriendRequest(ctx, as(alice, &api.SendFriendRequestRequest{EmailOrID: bob.id}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = s.friends.SendFriendRequest(ctx, as(alice, &api.SendFriendRequestRequest{EmailOrID: "nobody@example.com"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = s.friends.AcceptFriendRequest(ctx, as(alice, &api.AcceptFriendRequestRequest{SenderID: bob.id}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	pending, err := s.friends.GetFriends(ctx, as(bob, &api.GetFriendsRequest{}))
	if err != nil {
		t.Fatalf("GetFriends failed: %v", err)
	}
	if len(pending.Msg.Requests) != 1 || pending.Msg.Requests[0].Name != "Alice" {
		t.Fatalf("expected a request from Alice, got %+v", pending.Msg.Requests)
	}

	if _, err := s.friends.AcceptFriendRequest(ctx, as(bob, &api.AcceptFriendRequestRequest{SenderID: alice.id})); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	for _, who := range []session{alice, bob} {
		list, err := s.friends.GetFriends(ctx, as(who, &api.GetFriendsRequest{}))
		if err != nil {
			t.Fatalf("GetFriends failed: %v", err)
		}
		if len(list.Msg.Friends) != 1 || len(list.Msg.Requests) != 0 || len(list.Msg.Sent) != 0 {
			t.Errorf("unexpected friend lists for %s: %+v", who.id, list.Msg)
		}
	}

	// Rejecting a request that is no longer pending is a no-op.
	for i := 0; i < 2; i++ {
		if _, err := s.friends.RejectFriendRequest(ctx, as(bob, &api.RejectFriendRequestRequest{SenderID: alice.id})); err != nil {
			t.Fatalf("RejectFriendRequest #%d failed: %v", i+1, err)
		}
	}

	if _, err := s.friends.RemoveFriend(ctx, as(alice, &api.RemoveFriendRequest{FriendID: bob.id})); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	_, err = s.friends.RemoveFriend(ctx, as(alice, &api.RemoveFriendRequest{FriendID: bob.id}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = s.friends.GetFriends(ctx, connect.NewRequest(&api.GetFriendsRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestSettlementService(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	uma := s.register(t, "uma@example.com", "Uma")
	fay := s.register(t, "fay@example.com", "Fay")
	finn := s.register(t, "finn@example.com", "Finn")
	stranger := s.register(t, "sam@example.com", "Sam")
	s.befriend(t, uma, fay)
	s.befriend(t, uma, finn)

	created, err := s.settlements.CreateSharedExpense(ctx, as(uma, &api.CreateSharedExpenseRequest{
		Title:    "Dinner",
		Amount:   "100",
		Category: "food",
		Date:     "2024-03-01",
		Shares: []*api.Share{
			{FriendID: fay.id, Amount: "30"},
			{FriendID: finn.id, Amount: "20"},
		},
	}))
	if err != nil {
		t.Fatalf("CreateSharedExpense failed: %v", err)
	}
	expense := created.Msg.Expense
	if expense.Amount != "100.00" || expense.Date != "2024-03-01" || expense.CreatedBy != uma.id {
		t.Errorf("unexpected expense: %+v", expense)
	}

	t.Run("sharing with a stranger is refused", func(t *testing.T) {
		_, err := s.settlements.CreateSharedExpense(ctx, as(uma, &api.CreateSharedExpenseRequest{
			Title: "Cab", Amount: "10", Shares: []*api.Share{{FriendID: stranger.id, Amount: "5"}},
		}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := s.settlements.CreateSharedExpense(ctx, as(uma, &api.CreateSharedExpenseRequest{Title: "Cab", Amount: "ten"}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = s.settlements.CreateSharedExpense(ctx, as(uma, &api.CreateSharedExpenseRequest{Title: "Cab", Amount: "-3"}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = s.settlements.CreateSharedExpense(ctx, as(uma, &api.CreateSharedExpenseRequest{Title: "Cab", Amount: "3", Date: "March"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("each friend only sees their own share", func(t *testing.T) {
		resp, err := s.settlements.ListSharedWithMe(ctx, as(finn, &api.ListSharedWithMeRequest{}))
		if err != nil {
			t.Fatalf("ListSharedWithMe failed: %v", err)
		}
		if len(resp.Msg.Expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(resp.Msg.Expenses))
		}
		shares := resp.Msg.Expenses[0].SharedWith
		if len(shares) != 1 || shares[0].FriendID != finn.id || shares[0].Amount != "20.00" {
			t.Errorf("unexpected shares: %+v", shares)
		}
	})

	t.Run("accept settles the share", func(t *testing.T) {
		inbox, err := s.settlements.GetInbox(ctx, as(fay, &api.GetInboxRequest{}))
		if err != nil {
			t.Fatalf("GetInbox failed: %v", err)
		}
		if len(inbox.Msg.Entries) != 1 || inbox.Msg.Entries[0].FriendID != uma.id || inbox.Msg.Entries[0].Name != "Uma" {
			t.Fatalf("unexpected inbox: %+v", inbox.Msg.Entries)
		}

		resp, err := s.settlements.AcceptSettlement(ctx, as(fay, &api.AcceptSettlementRequest{ExpenseID: expense.ID, Amount: "30"}))
		if err != nil {
			t.Fatalf("AcceptSettlement failed: %v", err)
		}
		if resp.Msg.Expense.Amount != "70.00" {
			t.Errorf("expected remaining 70.00, got %s", resp.Msg.Expense.Amount)
		}
		if len(resp.Msg.Expense.SharedWith) != 1 || !resp.Msg.Expense.SharedWith[0].Paid {
			t.Errorf("expected the caller's paid share only, got %+v", resp.Msg.Expense.SharedWith)
		}
		if resp.Msg.Minted.OwnerID != fay.id || resp.Msg.Minted.Amount != "30.00" || resp.Msg.Minted.SettledFrom != expense.ID {
			t.Errorf("unexpected minted expense: %+v", resp.Msg.Minted)
		}

		inbox, err = s.settlements.GetInbox(ctx, as(fay, &api.GetInboxRequest{}))
		if err != nil {
			t.Fatalf("GetInbox failed: %v", err)
		}
		if len(inbox.Msg.Entries) != 0 {
			t.Errorf("expected empty inbox, got %+v", inbox.Msg.Entries)
		}

		_, err = s.settlements.AcceptSettlement(ctx, as(fay, &api.AcceptSettlementRequest{ExpenseID: expense.ID, Amount: "30"}))
		assertCode(t, err, connect.CodeFailedPrecondition)

		_, err = s.settlements.AcceptSettlement(ctx, as(stranger, &api.AcceptSettlementRequest{ExpenseID: expense.ID, Amount: "30"}))
		assertCode(t, err, connect.CodeFailedPrecondition)

		_, err = s.settlements.AcceptSettlement(ctx, as(fay, &api.AcceptSettlementRequest{ExpenseID: "missing", Amount: "30"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("reject clears the request and is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if _, err := s.settlements.RejectSettlement(ctx, as(finn, &api.RejectSettlementRequest{ExpenseID: expense.ID})); err != nil {
				t.Fatalf("RejectSettlement #%d failed: %v", i+1, err)
			}
		}

		inbox, err := s.settlements.GetInbox(ctx, as(finn, &api.GetInboxRequest{}))
		if err != nil {
			t.Fatalf("GetInbox failed: %v", err)
		}
		if len(inbox.Msg.Entries) != 0 {
			t.Errorf("expected empty inbox, got %+v", inbox.Msg.Entries)
		}
	})

	t.Run("balances", func(t *testing.T) {
		resp, err := s.settlements.GetBalances(ctx, as(uma, &api.GetBalancesRequest{}))
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		// Fay settled; Finn rejected the request but still owes the share.
		if len(resp.Msg.Balances) != 1 {
			t.Fatalf("expected 1 balance, got %+v", resp.Msg.Balances)
		}
		b := resp.Msg.Balances[0]
		if b.FriendID != finn.id || b.Net != "20.00" || b.IOwe != "0.00" {
			t.Errorf("unexpected balance: %+v", b)
		}
	})

	t.Run("split equally", func(t *testing.T) {
		resp, err := s.settlements.CreateSharedExpense(ctx, as(uma, &api.CreateSharedExpenseRequest{
			Title:            "Groceries",
			Amount:           "100",
			SplitEquallyWith: []string{fay.id, finn.id},
		}))
		if err != nil {
			t.Fatalf("CreateSharedExpense failed: %v", err)
		}
		shares := resp.Msg.Expense.SharedWith
		if len(shares) != 2 || shares[0].Amount != "33.33" || shares[1].Amount != "33.33" {
			t.Errorf("unexpected shares: %+v", shares)
		}
		if resp.Msg.Expense.Category != "others" {
			t.Errorf("expected default category, got %q", resp.Msg.Expense.Category)
		}
	})
}
