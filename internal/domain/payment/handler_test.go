package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testHandler(secret string) (*Handler, *fakeOrderRepo, *fakeAccountRepo, *fakeLedger) {
	orders := newFakeOrderRepo()
	accounts := newFakeAccountRepo()
	ledger := &fakeLedger{}
	svc := testService(orders, accounts, ledger, secret)
	return NewHandler(svc), orders, accounts, ledger
}

func TestHandlerCreateOrder(t *testing.T) {
	h, _, _, _ := testHandler("")

	body := bytes.NewBufferString(`{"coins":20,"amount_vnd":52000,"email":"buyer@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/create-order", body)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool      `json:"success"`
		Data    OrderView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success {
		t.Error("expected success envelope")
	}
	if resp.Data.Status != StatusPending {
		t.Errorf("status = %s, want PENDING", resp.Data.Status)
	}
	if resp.Data.QRCodeURL == "" || resp.Data.TransferMemo == "" {
		t.Error("payment instructions missing from response")
	}
}

func TestHandlerCreateOrderUnknownPackage(t *testing.T) {
	h, _, _, _ := testHandler("")

	body := bytes.NewBufferString(`{"coins":42,"amount_vnd":1,"email":"buyer@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/create-order", body)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerCreateOrderValidation(t *testing.T) {
	h, _, _, _ := testHandler("")

	body := bytes.NewBufferString(`{"coins":0}`)
	req := httptest.NewRequest(http.MethodPost, "/create-order", body)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestHandlerGetStatus(t *testing.T) {
	h, orders, accounts, _ := testHandler("")
	o := seedOrder(orders, accounts)

	req := httptest.NewRequest(http.MethodGet, "/"+o.TransactionID+"/status", nil)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data StatusView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.TransactionID != o.TransactionID || resp.Data.Status != StatusPending {
		t.Errorf("unexpected status view: %+v", resp.Data)
	}
}

func TestHandlerGetStatusNotFound(t *testing.T) {
	h, _, _, _ := testHandler("")

	req := httptest.NewRequest(http.MethodGet, "/TXN-0-000000/status", nil)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerWebhookRequiresSecret(t *testing.T) {
	h, orders, accounts, ledger := testHandler("topsecret")
	seedOrder(orders, accounts)

	body := bytes.NewBufferString(`{"transaction_id":"TXN-1700000000-123456","status":"success"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", body)
	req.Header.Set("X-Webhook-Secret", "wrong")
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(ledger.calls) != 0 {
		t.Error("ledger must not be touched on rejected webhook")
	}
}

func TestHandlerWebhookSettlesOrder(t *testing.T) {
	h, orders, accounts, ledger := testHandler("topsecret")
	o := seedOrder(orders, accounts)

	body := bytes.NewBufferString(`{"transactionId":"TXN-1700000000-123456","status":"PAID","amountVnd":130000}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", body)
	req.Header.Set("X-Webhook-Secret", "topsecret")
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if len(ledger.calls) != 1 {
		t.Fatalf("ledger called %d times, want 1", len(ledger.calls))
	}
	stored, _ := orders.GetByTransactionID(req.Context(), o.TransactionID)
	if stored.Status != StatusCompleted {
		t.Errorf("stored status = %s, want COMPLETED", stored.Status)
	}
}

func TestHandlerListPackages(t *testing.T) {
	h, _, _, _ := testHandler("")

	req := httptest.NewRequest(http.MethodGet, "/packages", nil)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data struct {
			Packages []Package `json:"packages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Data.Packages) != len(Catalog) {
		t.Errorf("returned %d packages, want %d", len(resp.Data.Packages), len(Catalog))
	}
}
