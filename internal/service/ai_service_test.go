package service

import (
	"errors"
	"strings"
	"testing"

	"ai-paper-reader-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

func TestMapLLMError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "rate limit passes through",
			err:      &llm.APIError{StatusCode: 429, Body: "slow down"},
			wantCode: fiber.StatusTooManyRequests,
		},
		{
			name:     "auth failure becomes bad gateway",
			err:      &llm.APIError{StatusCode: 401, Body: "bad key"},
			wantCode: fiber.StatusBadGateway,
		},
		{
			name:     "forbidden becomes bad gateway",
			err:      &llm.APIError{StatusCode: 403, Body: "denied"},
			wantCode: fiber.StatusBadGateway,
		},
		{
			name:     "quota exhaustion passes through",
			err:      &llm.APIError{StatusCode: 402, Body: "no credits"},
			wantCode: fiber.StatusPaymentRequired,
		},
		{
			name:     "provider 500 becomes bad gateway",
			err:      &llm.APIError{StatusCode: 500, Body: "oops"},
			wantCode: fiber.StatusBadGateway,
		},
		{
			name:     "network error becomes bad gateway",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: fiber.StatusBadGateway,
		},
		{
			name:     "wrapped api error unwraps",
			err:      errors.Join(errors.New("chat failed"), &llm.APIError{StatusCode: 429}),
			wantCode: fiber.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapLLMError(tt.err)

			var fiberErr *fiber.Error
			if !errors.As(mapped, &fiberErr) {
				t.Fatalf("mapped error is %T, want *fiber.Error", mapped)
			}
			if fiberErr.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", fiberErr.Code, tt.wantCode)
			}
		})
	}
}

func TestComposePrompt(t *testing.T) {
	question := "What is attention?"

	if got := composePrompt(question, nil); got != question {
		t.Fatalf("prompt without context changed: %q", got)
	}

	got := composePrompt(question, []string{"caller supplied notes", "paper excerpt"})
	for _, want := range []string{"caller supplied notes", "paper excerpt", question} {
		if !strings.Contains(got, want) {
			t.Fatalf("composed prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "paper excerpt") > strings.Index(got, question) {
		t.Fatal("context should precede the question")
	}
}

func TestTruncateTitle(t *testing.T) {
	short := "What is attention?"
	if got := truncateTitle(short); got != short {
		t.Fatalf("short title changed: %q", got)
	}

	long := ""
	for i := 0; i < 30; i++ {
		long += "title "
	}
	got := truncateTitle(long)
	if len([]rune(got)) != 80 {
		t.Fatalf("truncated title length = %d, want 80", len([]rune(got)))
	}
}
