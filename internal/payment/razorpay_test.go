package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// sign computes the hex HMAC-SHA256 the provider attaches to callbacks.
func sign(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayVerifyPayment(t *testing.T) {
	r := NewRazorpay("rzp_key", "rzp_secret", "hook_secret")
	good := sign("rzp_secret", []byte("order_1|pay_1"))

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		wantErr   error
	}{
		{"valid", "order_1", "pay_1", good, nil},
		{"tampered payment id", "order_1", "pay_2", good, ErrInvalidSignature},
		{"empty signature", "order_1", "pay_1", "", ErrInvalidSignature},
		{"signed with another secret", "order_1", "pay_1", sign("other", []byte("order_1|pay_1")), ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.VerifyPayment(context.Background(), tt.orderID, tt.paymentID, tt.signature)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("VerifyPayment() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRazorpayParseWebhook(t *testing.T) {
	r := NewRazorpay("rzp_key", "rzp_secret", "hook_secret")
	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9"}}}}`)

	ev, err := r.ParseWebhook(payload, sign("hook_secret", payload))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if ev.Type != EventCaptured || ev.OrderID != "order_9" || ev.PaymentID != "pay_9" {
		t.Fatalf("event = %+v", ev)
	}

	if _, err := r.ParseWebhook(payload, sign("other", payload)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("wrong secret: err = %v", err)
	}

	refund := []byte(`{"event":"refund.created"}`)
	if _, err := r.ParseWebhook(refund, sign("hook_secret", refund)); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("unknown event: err = %v", err)
	}
}

func TestRazorpayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/orders") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		user, pass, ok := req.BasicAuth()
		if !ok || user != "rzp_key" || pass != "rzp_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]interface{}
		json.NewDecoder(req.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_abc",
			"amount":   body["amount"],
			"currency": body["currency"],
		})
	}))
	defer srv.Close()

	r := NewRazorpay("rzp_key", "rzp_secret", "")
	r.client.Request.BaseURL = srv.URL

	order, err := r.CreateOrder(context.Background(), 49900, "INR", "sub_1")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_abc" || order.Amount != 49900 || order.Currency != "INR" {
		t.Fatalf("order = %+v", order)
	}
}

func TestRazorpayCreateOrderProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": "BAD_REQUEST_ERROR", "description": "amount too small"},
		})
	}))
	defer srv.Close()

	r := NewRazorpay("rzp_key", "rzp_secret", "")
	r.client.Request.BaseURL = srv.URL

	if _, err := r.CreateOrder(context.Background(), 1, "INR", "sub_1"); err == nil {
		t.Fatal("expected an error for a rejected order")
	}
}

func TestRazorpayWebhookWithoutSecret(t *testing.T) {
	r := NewRazorpay("rzp_key", "rzp_secret", "")
	payload := []byte(`{"event":"payment.captured"}`)
	if _, err := r.ParseWebhook(payload, sign("", payload)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v", err)
	}
}
