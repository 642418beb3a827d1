package jwt

import "testing"

const (
	testSecret        = "test-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "1234567890", "driver", "USER", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.NationalID != "1234567890" {
		t.Errorf("expected national ID 1234567890, got %s", claims.NationalID)
	}
	if claims.Role != "USER" {
		t.Errorf("expected role USER, got %s", claims.Role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "1234567890", "driver", "USER", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "1234567890", "driver", "USER", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testRefreshSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken returned error: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.TokenID != "token-id-1" {
		t.Errorf("expected token ID token-id-1, got %s", claims.TokenID)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err == nil {
		t.Error("refresh token must not validate as access token")
	}
}
