package caller

import (
	"context"
	"testing"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

func TestAnswerURL(t *testing.T) {
	p, err := NewPlivoCaller("MAXXXXXXXXXXXXXXXXXX", "token", "+14155550100", "+14155550123", "https://example.ngrok.io/")
	if err != nil {
		t.Fatalf("NewPlivoCaller: %v", err)
	}
	if got, want := p.AnswerURL(intent.Warmer), "https://example.ngrok.io/action-script/warmer"; got != want {
		t.Errorf("AnswerURL(Warmer) = %q, want %q", got, want)
	}
	if got, want := p.AnswerURL(intent.Cooler), "https://example.ngrok.io/action-script/cooler"; got != want {
		t.Errorf("AnswerURL(Cooler) = %q, want %q", got, want)
	}
}

func TestExecuteRejectsNone(t *testing.T) {
	p, err := NewPlivoCaller("MAXXXXXXXXXXXXXXXXXX", "token", "+14155550100", "+14155550123", "https://example.ngrok.io")
	if err != nil {
		t.Fatalf("NewPlivoCaller: %v", err)
	}
	if _, err := p.Execute(context.Background(), intent.None); err == nil {
		t.Error("Execute(None) must fail before reaching the API")
	}
}
