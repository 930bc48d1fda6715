// Package paytr talks to the PayTR iFrame API: it obtains the token for the
// hosted payment page and verifies the asynchronous result callback.
package paytr

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultEndpoint = "https://www.paytr.com/odeme/api/get-token"
	iframeBaseURL   = "https://www.paytr.com/odeme/guvenli/"

	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ErrGateway wraps every failure reported by, or while reaching, PayTR.
var ErrGateway = errors.New("paytr gateway error")

// Config holds merchant credentials and redirect targets.
type Config struct {
	MerchantID   string
	MerchantKey  string
	MerchantSalt string
	TestMode     bool
	OkURL        string
	FailURL      string
	Endpoint     string
}

// Client requests payment tokens from PayTR.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client; a nil httpClient gets a 10 second timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// BasketItem is one line of the user_basket field.
type BasketItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// TokenRequest is everything PayTR needs to open a payment session.
type TokenRequest struct {
	MerchantOID    string
	Email          string
	UserIP         string
	Amount         decimal.Decimal
	UserName       string
	UserAddress    string
	UserPhone      string
	Basket         []BasketItem
	Currency       string
	MaxInstallment int
	NoInstallment  bool
	TimeoutMinutes int
}

type tokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// GetToken requests an iframe token for req.
func (c *Client) GetToken(ctx context.Context, req TokenRequest) (string, error) {
	if req.MerchantOID == "" || req.UserIP == "" {
		return "", fmt.Errorf("%w: merchant_oid and user_ip are required", ErrGateway)
	}
	if req.Currency == "" {
		req.Currency = "TL"
	}
	if req.TimeoutMinutes <= 0 {
		req.TimeoutMinutes = 30
	}

	basket, err := encodeBasket(req.Basket)
	if err != nil {
		return "", err
	}

	paymentAmount := strconv.FormatInt(req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), 10)
	noInstallment := boolFlag(req.NoInstallment)
	maxInstallment := strconv.Itoa(req.MaxInstallment)
	testMode := boolFlag(c.cfg.TestMode)

	hashStr := c.cfg.MerchantID + req.UserIP + req.MerchantOID + req.Email + paymentAmount +
		basket + noInstallment + maxInstallment + req.Currency + testMode

	form := url.Values{}
	form.Set("merchant_id", c.cfg.MerchantID)
	form.Set("user_ip", req.UserIP)
	form.Set("merchant_oid", req.MerchantOID)
	form.Set("email", req.Email)
	form.Set("payment_amount", paymentAmount)
	form.Set("paytr_token", c.sign(hashStr+c.cfg.MerchantSalt))
	form.Set("user_basket", basket)
	form.Set("debug_on", testMode)
	form.Set("no_installment", noInstallment)
	form.Set("max_installment", maxInstallment)
	form.Set("user_name", req.UserName)
	form.Set("user_address", req.UserAddress)
	form.Set("user_phone", req.UserPhone)
	form.Set("merchant_ok_url", c.cfg.OkURL)
	form.Set("merchant_fail_url", c.cfg.FailURL)
	form.Set("timeout_limit", strconv.Itoa(req.TimeoutMinutes))
	form.Set("currency", req.Currency)
	form.Set("test_mode", testMode)
	form.Set("lang", "tr")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrGateway, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	if tr.Status != StatusSuccess || tr.Token == "" {
		return "", fmt.Errorf("%w: %s", ErrGateway, tr.Reason)
	}
	return tr.Token, nil
}

// IframeURL is the hosted payment page for token.
func (c *Client) IframeURL(token string) string {
	return iframeBaseURL + token
}

// Callback is the form PayTR posts to the merchant notification URL.
type Callback struct {
	MerchantOID     string
	Status          string
	TotalAmount     string
	Hash            string
	FailedReasonMsg string
	PaymentType     string
}

// CallbackHash computes the hash PayTR attaches to a callback.
func (c *Client) CallbackHash(merchantOID, status, totalAmount string) string {
	return c.sign(merchantOID + c.cfg.MerchantSalt + status + totalAmount)
}

// VerifyCallback reports whether cb was signed with our merchant key.
func (c *Client) VerifyCallback(cb Callback) bool {
	expected := c.CallbackHash(cb.MerchantOID, cb.Status, cb.TotalAmount)
	return hmac.Equal([]byte(expected), []byte(cb.Hash))
}

func (c *Client) sign(message string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.MerchantKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeBasket(items []BasketItem) (string, error) {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{item.Name, item.Price.StringFixed(2), item.Quantity})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode basket: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
