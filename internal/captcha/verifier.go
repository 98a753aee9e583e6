package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Verifier checks a captcha response token against the provider's siteverify
// endpoint. A transport or provider outage must never block submissions, so
// Verify fails open and only rejects on an explicit negative answer.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
	logger    *zap.Logger
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// New constructs a captcha verifier. An empty secret disables verification
// entirely and every token passes.
func New(secret, verifyURL string, timeout time.Duration, logger *zap.Logger) *Verifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Enabled reports whether verification is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != "" && v.verifyURL != ""
}

// Verify returns false only when the provider explicitly rejects the token.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) bool {
	if !v.Enabled() {
		return true
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return true
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		if v.logger != nil {
			v.logger.Warn("captcha verification unreachable, allowing submission", zap.Error(err))
		}
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if v.logger != nil {
			v.logger.Warn("captcha verification returned non-200, allowing submission",
				zap.Int("status", resp.StatusCode))
		}
		return true
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if v.logger != nil {
			v.logger.Warn("captcha verification response unreadable, allowing submission", zap.Error(err))
		}
		return true
	}

	if !body.Success && v.logger != nil {
		v.logger.Info("captcha rejected", zap.Strings("error_codes", body.ErrorCodes))
	}
	return body.Success
}
