package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// memoPrefix tags bank transfer descriptions so the gateway can route them
const memoPrefix = "NAPCOIN"

// NewTransactionID generates a public transaction id of the form
// TXN-<unix seconds>-<6 random digits>. Uniqueness is enforced by the
// database; callers retry on collision.
func NewTransactionID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("TXN-%d-%06d", time.Now().Unix(), n.Int64())
}

// TransferMemo builds the bank transfer description for an order
func TransferMemo(transactionID string) string {
	return memoPrefix + transactionID
}
