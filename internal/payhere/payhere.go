package payhere

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ProviderStatus is the payment verdict reported by PayHere in a callback.
type ProviderStatus string

const (
	StatusPaid        ProviderStatus = "paid"
	StatusPending     ProviderStatus = "pending"
	StatusCancelled   ProviderStatus = "cancelled"
	StatusFailed      ProviderStatus = "failed"
	StatusChargedback ProviderStatus = "chargedback"
	StatusUnknown     ProviderStatus = "unknown"
)

// PayHere status codes from the notify API.
const (
	codePaid        = 2
	codePending     = 0
	codeCancelled   = -1
	codeFailed      = -2
	codeChargedback = -3
)

func (s ProviderStatus) String() string {
	return string(s)
}

// Actionable reports whether the verdict should mutate payment records.
// Pending and unknown codes are not actionable.
func (s ProviderStatus) Actionable() bool {
	switch s {
	case StatusPaid, StatusCancelled, StatusFailed, StatusChargedback:
		return true
	default:
		return false
	}
}

// ParseStatusCode maps a PayHere numeric status code to a ProviderStatus.
func ParseStatusCode(code string) ProviderStatus {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return StatusUnknown
	}

	switch n {
	case codePaid:
		return StatusPaid
	case codePending:
		return StatusPending
	case codeCancelled:
		return StatusCancelled
	case codeFailed:
		return StatusFailed
	case codeChargedback:
		return StatusChargedback
	default:
		return StatusUnknown
	}
}

// Callback holds the fields PayHere posts to the notify URL.
type Callback struct {
	MerchantID string `json:"merchant_id"`
	OrderRef   string `json:"order_id"`
	PaymentID  string `json:"payment_id"`
	Amount     string `json:"payhere_amount"`
	Currency   string `json:"payhere_currency"`
	StatusCode string `json:"status_code"`
	Signature  string `json:"md5sig"`
}

// Complete reports whether every field required for verification is present.
// PaymentID is informational and may be empty.
func (c *Callback) Complete() bool {
	return c.MerchantID != "" &&
		c.OrderRef != "" &&
		c.Amount != "" &&
		c.Currency != "" &&
		c.StatusCode != "" &&
		c.Signature != ""
}

// Signer produces and verifies the MD5 signatures of the PayHere checkout
// protocol for a single merchant account.
type Signer struct {
	merchantID string
	innerHash  string
}

// NewSigner creates a Signer. The merchant secret is hashed once up front;
// the plaintext secret is not retained.
func NewSigner(merchantID, merchantSecret string) *Signer {
	return &Signer{
		merchantID: merchantID,
		innerHash:  upperMD5(merchantSecret),
	}
}

// MerchantID returns the merchant account id the signer signs for.
func (s *Signer) MerchantID() string {
	return s.merchantID
}

// CheckoutHash computes the signature accompanying a payment initiation:
// upper(md5(merchantID + orderRef + amount2dp + currency + upper(md5(secret)))).
func (s *Signer) CheckoutHash(orderRef string, amountCents int64, cur string) string {
	return upperMD5(s.merchantID + orderRef + FormatAmount(amountCents) + cur + s.innerHash)
}

// VerifyCallback recomputes the expected callback signature and compares it
// against the provided one in constant time.
func (s *Signer) VerifyCallback(cb *Callback) bool {
	expected := s.CallbackSignature(cb)

	return subtle.ConstantTimeCompare([]byte(expected), []byte(cb.Signature)) == 1
}

// CallbackSignature computes the signature PayHere would attach to cb.
func (s *Signer) CallbackSignature(cb *Callback) string {
	return s.callbackHash(cb.MerchantID, cb.OrderRef, cb.Amount, cb.Currency, cb.StatusCode)
}

// callbackHash mirrors PayHere's notify signature: the status code is folded
// in between the currency and the hashed secret.
func (s *Signer) callbackHash(merchantID, orderRef, amount, cur, statusCode string) string {
	return upperMD5(merchantID + orderRef + amount + cur + statusCode + s.innerHash)
}

// FormatAmount renders cents as the exactly-two-decimal string the hash
// scheme requires.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))

	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
