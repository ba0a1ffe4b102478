package app

import (
	"testing"

	"github.com/form3tech-oss/jwt-go"
)

func newTestVoiceService() *VoiceService {
	return NewVoiceService("test-secret", "issuer1", "voice.example.com")
}

func parseVoiceClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("token did not parse: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		t.Fatalf("token claims invalid: %+v", token.Claims)
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	v, ok := claims[key].(string)
	if !ok {
		t.Fatalf("claim %q missing or not a string: %v", key, claims[key])
	}
	return v
}

func TestGenerateLoginToken(t *testing.T) {
	svc := newTestVoiceService()

	tokenString, err := svc.GenerateToken("user-1", VoiceTokenActionLogin, "")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims := parseVoiceClaims(t, tokenString, "test-secret")
	if got := stringClaim(t, claims, "iss"); got != "issuer1" {
		t.Fatalf("iss = %s, want issuer1", got)
	}
	if got := stringClaim(t, claims, "sub"); got != "user-1" {
		t.Fatalf("sub = %s, want user-1", got)
	}
	if got := stringClaim(t, claims, "vxa"); got != VoiceTokenActionLogin {
		t.Fatalf("vxa = %s, want login", got)
	}

	wantURI := "sip:.issuer1.user-1.@voice.example.com"
	if got := stringClaim(t, claims, "f"); got != wantURI {
		t.Fatalf("f = %s, want %s", got, wantURI)
	}
	// Login tokens target the user themselves.
	if got := stringClaim(t, claims, "t"); got != wantURI {
		t.Fatalf("t = %s, want %s", got, wantURI)
	}
}

func TestGenerateJoinToken(t *testing.T) {
	svc := newTestVoiceService()

	tokenString, err := svc.GenerateToken("user-1", VoiceTokenActionJoin, "session-42")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims := parseVoiceClaims(t, tokenString, "test-secret")
	if got := stringClaim(t, claims, "vxa"); got != VoiceTokenActionJoin {
		t.Fatalf("vxa = %s, want join", got)
	}
	want := "sip:confctl-g-session-42@voice.example.com"
	if got := stringClaim(t, claims, "t"); got != want {
		t.Fatalf("t = %s, want channel uri %s", got, want)
	}
}

func TestGenerateTokenValidation(t *testing.T) {
	svc := newTestVoiceService()

	if _, err := svc.GenerateToken("", VoiceTokenActionLogin, ""); err == nil {
		t.Fatal("empty user must be rejected")
	}
	if _, err := svc.GenerateToken("user-1", "teleport", ""); err == nil {
		t.Fatal("unsupported action must be rejected")
	}
	if _, err := svc.GenerateToken("user-1", VoiceTokenActionJoin, ""); err == nil {
		t.Fatal("join without channel must be rejected")
	}

	incomplete := NewVoiceService("", "issuer1", "voice.example.com")
	if _, err := incomplete.GenerateToken("user-1", VoiceTokenActionLogin, ""); err == nil {
		t.Fatal("missing secret must be rejected")
	}
}

func TestGenerateTokenSignature(t *testing.T) {
	svc := newTestVoiceService()

	tokenString, err := svc.GenerateToken("user-1", VoiceTokenActionLogin, "")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	_, err = jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("token must not verify under a different secret")
	}
}
