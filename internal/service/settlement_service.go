package service

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/spendwise-app/SpendWise/internal/ledger"
	"github.com/spendwise-app/SpendWise/internal/models"
	"github.com/spendwise-app/SpendWise/pkg/api"
	"github.com/spendwise-app/SpendWise/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService
type SettlementService struct {
	ledger *ledger.Ledger
}

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a new SettlementService.
func NewSettlementService(l *ledger.Ledger) *SettlementService {
	return &SettlementService{ledger: l}
}

// CreateSharedExpense stores an expense owned by the caller and split with friends.
// Shares are taken as given, or split equally when only SplitEquallyWith is set.
func (s *SettlementService) CreateSharedExpense(ctx context.Context, req *connect.Request[api.CreateSharedExpenseRequest]) (*connect.Response[api.CreateSharedExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("title is required"))
	}
	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	date, err := parseDate(req.Msg.Date)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var shares []models.Share
	if len(req.Msg.Shares) == 0 && len(req.Msg.SplitEquallyWith) > 0 {
		shares, err = ledger.SplitEqually(userID, amount, req.Msg.SplitEquallyWith)
	} else {
		shares, err = fromShares(req.Msg.Shares)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	expense, err := s.ledger.CreateSharedExpense(ctx, ledger.NewSharedExpense{
		OwnerID:  userID,
		Title:    title,
		Amount:   amount,
		Category: strings.TrimSpace(req.Msg.Category),
		Date:     date,
		Shares:   shares,
	})
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CreateSharedExpenseResponse{Expense: toExpense(expense)}), nil
}

// ListSharedWithMe lists expenses other identities shared with the caller,
// each carrying only the caller's share.
func (s *SettlementService) ListSharedWithMe(ctx context.Context, _ *connect.Request[api.ListSharedWithMeRequest]) (*connect.Response[api.ListSharedWithMeResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListSharedWithMe(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListSharedWithMeResponse{Expenses: toExpenses(expenses)}), nil
}

// AcceptSettlement records the caller paying towards their share of an expense.
func (s *SettlementService) AcceptSettlement(ctx context.Context, req *connect.Request[api.AcceptSettlementRequest]) (*connect.Response[api.AcceptSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	settlement, err := s.ledger.AcceptSettlement(ctx, req.Msg.ExpenseID, userID, amount)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.AcceptSettlementResponse{
		Expense: toExpense(ledger.ProjectFor(settlement.Expense, userID)),
		Minted:  toExpense(settlement.Minted),
	}), nil
}

// RejectSettlement declines a payment request in the caller's inbox.
func (s *SettlementService) RejectSettlement(ctx context.Context, req *connect.Request[api.RejectSettlementRequest]) (*connect.Response[api.RejectSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.RejectSettlement(ctx, req.Msg.ExpenseID, userID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RejectSettlementResponse{}), nil
}

// GetInbox lists the caller's pending payment requests.
func (s *SettlementService) GetInbox(ctx context.Context, _ *connect.Request[api.GetInboxRequest]) (*connect.Response[api.GetInboxResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.Inbox(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetInboxResponse{Entries: toInbox(entries)}), nil
}

// GetBalances returns the caller's outstanding balance with each friend.
func (s *SettlementService) GetBalances(ctx context.Context, _ *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := s.ledger.Balances(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetBalancesResponse{Balances: toBalances(balances)}), nil
}
