package domain

import (
	"crypto/rand"
	"time"
)

// ReferralProfile tracks one identity's side of the referral graph.
// ReferredCount and RewardBalance move together, exactly once per
// successful redemption.
type ReferralProfile struct {
	Identity      string    `json:"identity"`
	Code          string    `json:"code"`
	ReferredCount int64     `json:"referred_count"`
	RewardBalance int64     `json:"reward_balance"`
	ReferredBy    *string   `json:"referred_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// codeAlphabet avoids ambiguous characters (0/O, 1/I/L) so codes survive
// being typed from a chat message.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// NewReferralCode draws a random code of n characters. Uniqueness is
// enforced by the store, not by this function; callers retry on collision.
func NewReferralCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
