package req

import (
	"errors"
	"strings"
	"testing"
)

type spin struct {
	Bet string `json:"bet"`
}

func TestDecode(t *testing.T) {
	got, err := Decode[spin](strings.NewReader(`{"bet":"10"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.Bet != "10" {
		t.Fatalf("bet=%q", got.Bet)
	}

	if _, err := Decode[spin](strings.NewReader(``)); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := Decode[spin](strings.NewReader(`{"bet":"1","extra":true}`)); err == nil {
		t.Fatal("unknown field accepted")
	}
	if _, err := Decode[spin](strings.NewReader(`{"bet":10}`)); err == nil {
		t.Fatal("number accepted as string")
	}
}
