package auth

import (
	"errors"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	token, err := Sign("user-1", "user@example.com", "Test User", "https://example.com/p.png")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("expected email, got %s", claims.Email)
	}
	if claims.Name != "Test User" {
		t.Fatalf("expected name, got %s", claims.Name)
	}
}

func TestSignRequiresUserID(t *testing.T) {
	if _, err := Sign("  ", "user@example.com", "", ""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := Verify("not-a-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSecretRequiredOutsideDev(t *testing.T) {
	cases := []struct {
		env     string
		wantErr bool
	}{
		{"dev", false},
		{"local", false},
		{"", false},
		{"staging", true},
		{"production", true},
	}
	for _, tc := range cases {
		t.Run("env "+tc.env, func(t *testing.T) {
			t.Setenv("ENV", tc.env)
			t.Setenv("JWT_SECRET", "")
			_, err := Sign("user-1", "", "", "")
			if tc.wantErr && err == nil {
				t.Fatalf("expected error when JWT_SECRET is empty and ENV=%s", tc.env)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected dev fallback for ENV=%s, got %v", tc.env, err)
			}
		})
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := Sign("user-1", "", "", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if _, err := Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
