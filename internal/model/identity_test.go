package model

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCredential_HasToken(t *testing.T) {
	if (Credential{}).HasToken() {
		t.Error("expected HasToken false for empty token")
	}
	if !(Credential{APIToken: "tok"}).HasToken() {
		t.Error("expected HasToken true")
	}
}

func TestCredential_NeverLogged(t *testing.T) {
	const secret = "ynab-secret-token-value"
	cred := Credential{APIToken: secret, AllowedEmail: "owner@example.com"}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("config loaded", slog.Any("credential", cred))

	if strings.Contains(buf.String(), secret) {
		t.Errorf("log output leaked token: %s", buf.String())
	}
	if strings.Contains(buf.String(), "owner@example.com") {
		t.Errorf("log output leaked allowed email: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[redacted]") {
		t.Errorf("expected redaction marker, got %s", buf.String())
	}

	for _, out := range []string{fmt.Sprint(cred), fmt.Sprintf("%v", cred), fmt.Sprintf("%s", cred)} {
		if strings.Contains(out, secret) {
			t.Errorf("fmt output leaked token: %s", out)
		}
	}
}
