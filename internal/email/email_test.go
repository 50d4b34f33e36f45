package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/ErlanBelekov/user-api/internal/email"
)

func TestNewSender_LocalUsesLogSender(t *testing.T) {
	s := email.NewSender("local", "", "", slog.Default())
	if _, ok := s.(*email.LogSender); !ok {
		t.Fatalf("NewSender(local) = %T, want *email.LogSender", s)
	}
}

func TestNewSender_ProductionUsesResend(t *testing.T) {
	s := email.NewSender("production", "re_test_key", "noreply@example.com", slog.Default())
	if _, ok := s.(*email.ResendSender); !ok {
		t.Fatalf("NewSender(production) = %T, want *email.ResendSender", s)
	}
}

func TestLogSender_LogsRecipientAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := email.NewLogSender(logger).Send(context.Background(), email.Message{
		To:      "ops@example.com",
		Subject: "Diagnostic",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ops@example.com", "Diagnostic", "component=email"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
