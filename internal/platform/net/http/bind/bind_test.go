package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	perr "sikabook/internal/platform/errors"
	"sikabook/internal/platform/net/http/bind"
)

type utterIn struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Text           string `json:"text" validate:"required,min=1"`
	Speaker        string `json:"speaker" validate:"omitempty,oneof=seller customer unknown"`
}

func TestParseJSONHappyPath(t *testing.T) {
	body := `{"conversation_id":"c1","text":"tilapia 15 cedis","speaker":"seller"}`
	req := httptest.NewRequest("POST", "/utterances", strings.NewReader(body))

	got, err := bind.ParseJSON[utterIn](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ConversationID != "c1" || got.Text != "tilapia 15 cedis" || got.Speaker != "seller" {
		t.Fatalf("bad decode: %+v", got)
	}
}

func TestParseJSONValidation(t *testing.T) {
	body := `{"conversation_id":"c1","text":""}`
	req := httptest.NewRequest("POST", "/utterances", strings.NewReader(body))

	_, err := bind.ParseJSON[utterIn](req)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "text") {
		t.Fatalf("message should name the json field, got %q", err.Error())
	}
}

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	body := `{"conversation_id":"c1","text":"hi","bogus":true}`
	req := httptest.NewRequest("POST", "/utterances", strings.NewReader(body))

	if _, err := bind.ParseJSON[utterIn](req); err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	body := `{"conversation_id":"c1","text":"hi"}{"again":true}`
	req := httptest.NewRequest("POST", "/utterances", strings.NewReader(body))

	if _, err := bind.ParseJSON[utterIn](req); err == nil {
		t.Fatalf("expected trailing data rejection")
	}
}

func TestParseJSONEmptyBody(t *testing.T) {
	// POST with empty body fails
	req := httptest.NewRequest("POST", "/utterances", strings.NewReader(""))
	if _, err := bind.ParseJSON[utterIn](req); err == nil {
		t.Fatalf("expected empty body error for POST")
	}

	// GET tolerates empty body
	type filter struct {
		Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
	}
	reqGet := httptest.NewRequest("GET", "/ledger/recent", strings.NewReader(""))
	if _, err := bind.ParseJSON[filter](reqGet); err != nil {
		t.Fatalf("GET empty body should be tolerated, got %v", err)
	}
}

func TestParseJSONBadSyntaxIsJSONError(t *testing.T) {
	req := httptest.NewRequest("POST", "/utterances", strings.NewReader(`{"text":`))
	_, err := bind.ParseJSON[utterIn](req)
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if got := perr.HTTPStatus(err); got != 400 {
		t.Fatalf("expected 400 mapping, got %d", got)
	}
}
