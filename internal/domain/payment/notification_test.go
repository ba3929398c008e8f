package payment

import (
	"errors"
	"testing"
)

func TestParseNotificationAliases(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantTxn string
		wantAmt *float64
	}{
		{"snake_case id", `{"transaction_id":"TXN-1-000001","status":"success"}`, "TXN-1-000001", nil},
		{"camelCase id", `{"transactionId":"TXN-2-000002","status":"success"}`, "TXN-2-000002", nil},
		{"short id alias", `{"txn_id":"TXN-3-000003","status":"success"}`, "TXN-3-000003", nil},
		{"amount", `{"transaction_id":"TXN-4-000004","amount":52000}`, "TXN-4-000004", f64(52000)},
		{"amount_vnd alias", `{"transaction_id":"TXN-5-000005","amount_vnd":130000}`, "TXN-5-000005", f64(130000)},
		{"amountVnd alias", `{"transaction_id":"TXN-6-000006","amountVnd":260000}`, "TXN-6-000006", f64(260000)},
		{"quoted amount", `{"transaction_id":"TXN-7-000007","amount":"52000"}`, "TXN-7-000007", f64(52000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNotification([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.TransactionID != tt.wantTxn {
				t.Errorf("transaction id = %q, want %q", n.TransactionID, tt.wantTxn)
			}
			if tt.wantAmt == nil {
				if n.Amount != nil {
					t.Errorf("amount = %v, want nil", *n.Amount)
				}
			} else if n.Amount == nil || *n.Amount != *tt.wantAmt {
				t.Errorf("amount = %v, want %v", n.Amount, *tt.wantAmt)
			}
		})
	}
}

func TestParseNotificationMissingTransactionID(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"status":"success"}`,
		`{"transaction_id":""}`,
		`not json`,
	} {
		if _, err := ParseNotification([]byte(body)); !errors.Is(err, ErrMissingField) {
			t.Errorf("body %q: expected ErrMissingField, got %v", body, err)
		}
	}
}

func TestNotificationIsSuccess(t *testing.T) {
	success := []string{"success", "SUCCESS", "Completed", "paid", "PAID"}
	for _, s := range success {
		n := &Notification{Status: s}
		if !n.IsSuccess() {
			t.Errorf("status %q should count as success", s)
		}
	}

	failure := []string{"failed", "pending", "cancelled", "", "error"}
	for _, s := range failure {
		n := &Notification{Status: s}
		if n.IsSuccess() {
			t.Errorf("status %q should not count as success", s)
		}
	}
}

func f64(v float64) *float64 { return &v }
