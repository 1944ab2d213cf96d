package dto

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	UserID string `json:"user_id" binding:"required,min=1,max=64"`
}

// SelectWalletRequest is the request body for switching the active wallet.
type SelectWalletRequest struct {
	UserID  string `json:"user_id" binding:"required,min=1,max=64"`
	Address string `json:"address" binding:"required,max=128"`
}

// WalletCreatedResponse is returned once, on creation. The seed is shown to
// the user here and never again.
type WalletCreatedResponse struct {
	Address   string `json:"address"`
	Seed      string `json:"seed"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// WalletResponse is the response body for wallet queries.
type WalletResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// WalletListResponse wraps a user's addresses.
type WalletListResponse struct {
	Addresses []string `json:"addresses"`
}

// ActiveWalletResponse reports the current selection; Address is "" when the
// user has none.
type ActiveWalletResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// RollRequest is the request body for performing a roll.
type RollRequest struct {
	UserID string `json:"user_id" binding:"required,min=1,max=64"`
	IsPaid bool   `json:"is_paid"`
}

// RollResponse is the settled outcome of one roll.
type RollResponse struct {
	Value       int   `json:"value"`
	TokenAmount int64 `json:"token_amount"`
	Balance     int64 `json:"balance"`
}

// RollRecordResponse is one entry of the roll history.
type RollRecordResponse struct {
	ID          string `json:"id"`
	Value       int    `json:"value"`
	TokenAmount int64  `json:"token_amount"`
	Paid        bool   `json:"paid"`
	CreatedAt   string `json:"created_at"`
}

// RollHistoryResponse wraps the roll history list.
type RollHistoryResponse struct {
	Items []RollRecordResponse `json:"items"`
}

// ReferralResponse is the response for a referral profile lookup.
type ReferralResponse struct {
	Identity      string `json:"identity"`
	Code          string `json:"code"`
	Link          string `json:"link"`
	ReferredCount int64  `json:"referred_count"`
	RewardBalance int64  `json:"reward_balance"`
}

// RedeemRequest is the request body for redeeming a referral code.
type RedeemRequest struct {
	Code     string `json:"code" binding:"required,min=4,max=16"`
	Identity string `json:"identity" binding:"required,min=1,max=64"`
}

// RedeemResponse confirms a redemption.
type RedeemResponse struct {
	Referrer string `json:"referrer"`
	Referred string `json:"referred"`
}

// ConnectRequest is the request body for starting a wallet pairing session.
type ConnectRequest struct {
	SessionID string `json:"session_id" binding:"required,min=1,max=128"`
}

// ConnectResponse carries the pairing link for the session.
type ConnectResponse struct {
	PairingLink string `json:"pairing_link"`
}
