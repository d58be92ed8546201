package signature

import (
	"strings"
	"testing"
)

func TestSignAndUnsign_Roundtrip(t *testing.T) {
	value := "aBcDeFgHiJkLmNoPqRsT"
	secret := "test-secret"

	signed := Sign(value, secret)
	if !strings.HasPrefix(signed, value+".") {
		t.Errorf("signed value should start with %q., got %q", value, signed)
	}

	got, ok := Unsign(signed, secret)
	if !ok {
		t.Fatal("expected valid signature to verify")
	}
	if got != value {
		t.Errorf("expected %q, got %q", value, got)
	}
}

func TestSign_NoBase64Padding(t *testing.T) {
	signed := Sign("some-session-id", "secret")
	if strings.HasSuffix(signed, "=") {
		t.Errorf("signature must not carry base64 padding, got %q", signed)
	}
}

func TestUnsign_WrongSecret(t *testing.T) {
	signed := Sign("aBcDeFgHiJkLmNoPqRsT", "secret-a")
	if _, ok := Unsign(signed, "secret-b"); ok {
		t.Error("signature signed with different secret must not verify")
	}
}

func TestUnsign_TamperedValue(t *testing.T) {
	signed := Sign("aBcDeFgHiJkLmNoPqRsT", "secret")
	tampered := "x" + signed[1:]
	if _, ok := Unsign(tampered, "secret"); ok {
		t.Error("tampered value must not verify")
	}
}

func TestUnsign_TamperedSignature(t *testing.T) {
	signed := Sign("aBcDeFgHiJkLmNoPqRsT", "secret")
	var tampered string
	if strings.HasSuffix(signed, "A") {
		tampered = signed[:len(signed)-1] + "B"
	} else {
		tampered = signed[:len(signed)-1] + "A"
	}
	if _, ok := Unsign(tampered, "secret"); ok {
		t.Error("tampered signature must not verify")
	}
}

func TestUnsign_MalformedInput(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		".leading-dot",
		"value.",
	}
	for _, input := range cases {
		if _, ok := Unsign(input, "secret"); ok {
			t.Errorf("malformed input %q must not verify", input)
		}
	}
}
