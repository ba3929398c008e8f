package payment

import (
	"fmt"
	"net/url"
	"strconv"
)

// BankAccount is the receiving bank account rendered into QR codes
type BankAccount struct {
	BankName      string
	BankID        string
	AccountNumber string
	AccountName   string
}

// QRCodeURL builds a VietQR image URL for a transfer into the account
// with the given amount and memo.
func (b BankAccount) QRCodeURL(amountVND float64, memo string) string {
	params := url.Values{}
	params.Set("amount", strconv.FormatFloat(amountVND, 'f', -1, 64))
	params.Set("addInfo", memo)
	params.Set("accountName", b.AccountName)

	return fmt.Sprintf("https://img.vietqr.io/image/%s-%s-compact2.png?%s",
		b.BankID, b.AccountNumber, params.Encode())
}
