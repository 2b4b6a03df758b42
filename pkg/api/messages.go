package api

// DateLayout is the wire format of expense dates.
const DateLayout = "2006-01-02"

// User is the public profile returned by AuthService.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Friend is another identity as shown in friend lists.
type Friend struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SendFriendRequestRequest struct {
	// EmailOrID is an email address or an identity ID.
	EmailOrID string `json:"emailOrId"`
}

type SendFriendRequestResponse struct {
	Friend *Friend `json:"friend"`
}

type AcceptFriendRequestRequest struct {
	SenderID string `json:"senderId"`
}

type AcceptFriendRequestResponse struct{}

type RejectFriendRequestRequest struct {
	SenderID string `json:"senderId"`
}

type RejectFriendRequestResponse struct{}

type RemoveFriendRequest struct {
	FriendID string `json:"friendId"`
}

type RemoveFriendResponse struct{}

type GetFriendsRequest struct{}

type GetFriendsResponse struct {
	Friends  []*Friend `json:"friends"`
	Requests []*Friend `json:"requests"`
	Sent     []*Friend `json:"sent"`
}

// Share is one friend's portion of an expense. Amounts are decimal strings.
type Share struct {
	FriendID string `json:"friendId"`
	Amount   string `json:"amount"`
	Paid     bool   `json:"paid"`
}

// Expense is an expense as returned to clients.
type Expense struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Title       string   `json:"title"`
	Amount      string   `json:"amount"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	CreatedBy   string   `json:"createdBy"`
	SettledFrom string   `json:"settledFrom,omitempty"`
	SharedWith  []*Share `json:"sharedWith"`
	CreatedAt   int64    `json:"createdAt"`
}

type CreateSharedExpenseRequest struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	// Date in DateLayout; today when empty.
	Date   string   `json:"date"`
	Shares []*Share `json:"shares"`
	// SplitEquallyWith builds equal shares for these friends when Shares is empty.
	SplitEquallyWith []string `json:"splitEquallyWith"`
}

type CreateSharedExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListSharedWithMeRequest struct{}

type ListSharedWithMeResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type AcceptSettlementRequest struct {
	ExpenseID string `json:"expenseId"`
	Amount    string `json:"amount"`
}

type AcceptSettlementResponse struct {
	// Expense is the settled expense, carrying only the caller's share.
	Expense *Expense `json:"expense"`
	// Minted is the caller's new expense recording the payment.
	Minted *Expense `json:"minted"`
}

type RejectSettlementRequest struct {
	ExpenseID string `json:"expenseId"`
}

type RejectSettlementResponse struct{}

// InboxEntry is a pending payment request.
type InboxEntry struct {
	ExpenseID string `json:"expenseId"`
	FriendID  string `json:"friendId"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type GetInboxRequest struct{}

type GetInboxResponse struct {
	Entries []*InboxEntry `json:"entries"`
}

// Balance is what is outstanding with one friend. Positive Net: the friend owes the caller.
type Balance struct {
	FriendID string `json:"friendId"`
	OwedToMe string `json:"owedToMe"`
	IOwe     string `json:"iOwe"`
	Net      string `json:"net"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}
