package payment

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewTransactionIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^TXN-\d+-\d{6}$`)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		if !pattern.MatchString(id) {
			t.Fatalf("transaction id %q does not match TXN-<unix>-<6 digits>", id)
		}
	}
}

func TestNewTransactionIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTransactionID()
		if seen[id] {
			t.Fatalf("duplicate transaction id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestTransferMemo(t *testing.T) {
	memo := TransferMemo("TXN-1700000000-123456")
	if memo != "NAPCOINTXN-1700000000-123456" {
		t.Errorf("memo = %q", memo)
	}
}

func TestQRCodeURL(t *testing.T) {
	bank := BankAccount{
		BankName:      "VietinBank",
		BankID:        "970415",
		AccountNumber: "113366668888",
		AccountName:   "RENDERTOOL",
	}

	url := bank.QRCodeURL(52000, "NAPCOINTXN-1-000001")

	if !strings.HasPrefix(url, "https://img.vietqr.io/image/970415-113366668888-compact2.png?") {
		t.Fatalf("unexpected url prefix: %s", url)
	}
	for _, want := range []string{"amount=52000", "addInfo=NAPCOINTXN-1-000001", "accountName=RENDERTOOL"} {
		if !strings.Contains(url, want) {
			t.Errorf("url missing %q: %s", want, url)
		}
	}
}
