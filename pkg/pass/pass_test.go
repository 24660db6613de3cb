package pass

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("pumpkin")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "pumpkin" {
		t.Fatal("password stored in clear")
	}
	if !VerifyPassword(hash, "pumpkin") {
		t.Fatal("valid password rejected")
	}
	if VerifyPassword(hash, "Pumpkin") {
		t.Fatal("wrong password accepted")
	}
}
