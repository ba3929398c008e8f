package payment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Notification is a bank webhook payload normalized to canonical fields.
// Gateways disagree on field naming, so aliases are folded here once and
// the rest of the pipeline only sees the canonical shape.
type Notification struct {
	TransactionID string
	Status        string
	Amount        *float64
	Raw           json.RawMessage
}

// successStatuses is the vocabulary of gateway statuses treated as paid
var successStatuses = map[string]bool{
	"success":   true,
	"completed": true,
	"paid":      true,
}

// IsSuccess reports whether the gateway marked the payment as settled
func (n *Notification) IsSuccess() bool {
	return successStatuses[strings.ToLower(n.Status)]
}

// ParseNotification decodes a raw webhook body and normalizes field aliases.
// The transaction id is required; amount is optional and nil when absent.
func ParseNotification(body []byte) (*Notification, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: invalid json body", ErrMissingField)
	}

	n := &Notification{Raw: append(json.RawMessage(nil), body...)}

	txnID, ok := firstString(fields, "transaction_id", "transactionId", "txn_id")
	if !ok || txnID == "" {
		return nil, fmt.Errorf("%w: transaction_id", ErrMissingField)
	}
	n.TransactionID = txnID

	if status, ok := firstString(fields, "status"); ok {
		n.Status = status
	}

	if amount, ok := firstNumber(fields, "amount", "amount_vnd", "amountVnd"); ok {
		n.Amount = &amount
	}

	return n, nil
}

func firstString(fields map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return "", false
}

func firstNumber(fields map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f, true
		}
		// Some gateways quote numeric amounts
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
