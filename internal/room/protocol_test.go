package room

import (
	"errors"
	"testing"
)

func TestParseClientMessageStart(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"start"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage err: %v", err)
	}
	env, ok := msg.(Envelope)
	if !ok || env.Type != TypeStart {
		t.Fatalf("unexpected message: %#v", msg)
	}
}

func TestParseClientMessageChat(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"chat","message":"hello"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage err: %v", err)
	}
	chat, ok := msg.(ChatMessage)
	if !ok || chat.Message != "hello" {
		t.Fatalf("unexpected message: %#v", msg)
	}
}

func TestParseClientMessageGuess(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"guess","choice":"ai"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage err: %v", err)
	}
	guess, ok := msg.(GuessMessage)
	if !ok || guess.Choice != "ai" {
		t.Fatalf("unexpected message: %#v", msg)
	}
}

func TestParseClientMessageInvalidGuessChoice(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":"guess","choice":"robot"}`)); err == nil {
		t.Fatal("expected error for invalid guess choice")
	}
}

func TestParseClientMessageUnsupportedType(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"dance"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestParseClientMessageMalformedJSON(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseClientMessageRejectsServerTypes(t *testing.T) {
	for _, raw := range []string{
		`{"type":"result"}`,
		`{"type":"tick"}`,
		`{"type":"matchFound"}`,
	} {
		if _, err := ParseClientMessage([]byte(raw)); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType for %s, got %v", raw, err)
		}
	}
}
