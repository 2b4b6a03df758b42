// Package models defines the core domain models for SpendWise.
//
// # Identities
//
// An Identity is a registered user together with its friend-graph fields:
//   - Friends: mutual friendships, kept symmetric across both identities
//   - FriendRequests: inbound requests this identity has not answered yet
//   - SentRequests: outbound requests, mirroring another identity's FriendRequests
//
// # Expenses
//
// An Expense belongs to one owner. A shared expense carries Shares, one per friend
// it was split with. Expense.Amount is a running balance: it starts at the total
// and shrinks every time a friend settles a share, while a new Expense is minted
// for the payer so their own spend is recorded.
//
// # Inbox
//
// InboxEntry is a pending payment-request reference shown to the paying friend.
// It points at the expense and names the identity that asked for the money.
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers between models
//  2. Amounts are decimal.Decimal, never float64
//  3. Models carry no persistence logic; transitions live in the friends and ledger packages
package models
