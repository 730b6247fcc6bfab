package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/collapsinghierarchy/filmgate/model"
)

func TestEnvelopeShape(t *testing.T) {
	raw, err := json.Marshal(model.Success("tok-value"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(raw), `{"success":true,"data":"tok-value"}`; got != want {
		t.Fatalf("success envelope: got %s, want %s", got, want)
	}

	raw, err = json.Marshal(model.Failure(1005, "Invalid credentials or account access restricted"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"success":false,"error":{"code":1005,"message":"Invalid credentials or account access restricted"}}`
	if string(raw) != want {
		t.Fatalf("failure envelope: got %s, want %s", raw, want)
	}
}

func TestUserJSONHidesSensitiveFields(t *testing.T) {
	raw, err := json.Marshal(model.User{Username: "filmfan", PasswordHash: "secret", Rejected: true})
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, leak := range []string{"secret", "passwordHash", "rejected"} {
		if strings.Contains(s, leak) {
			t.Fatalf("serialized user leaks %q: %s", leak, s)
		}
	}
}
