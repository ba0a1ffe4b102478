package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
)

type mockAccounts struct {
	updates []string // display names, in call order
	err     error
}

func (m *mockAccounts) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, displayName)
	return nil
}

type mockBonus struct {
	granted bool
	amount  int64
	err     error
	calls   int
}

func (m *mockBonus) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	m.amount = amount
	return m.granted, nil
}

func newTestOnboarding(accounts *mockAccounts, bonus *mockBonus) *Service {
	return NewService(accounts, bonus, rand.New(rand.NewSource(1)))
}

func TestOnboardNewUser(t *testing.T) {
	accounts := &mockAccounts{}
	bonus := &mockBonus{granted: true}
	svc := newTestOnboarding(accounts, bonus)

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser() error: %v", err)
	}
	if !result.BonusGranted || result.ProfileUpdateErr != nil {
		t.Fatalf("result = %+v, want granted bonus and clean profile update", result)
	}
	if bonus.amount != defaultWelcomeBonusCredits {
		t.Fatalf("bonus amount = %d, want %d", bonus.amount, defaultWelcomeBonusCredits)
	}
	if len(accounts.updates) != 1 {
		t.Fatalf("profile updates = %v, want exactly one", accounts.updates)
	}
	if ok, _ := regexp.MatchString(`^[A-Z][a-z]+[A-Z][a-z]+\d{4}$`, accounts.updates[0]); !ok {
		t.Fatalf("display name %q does not match the generated format", accounts.updates[0])
	}
}

func TestOnboardProfileFailureIsNonFatal(t *testing.T) {
	accounts := &mockAccounts{err: errors.New("name taken")}
	bonus := &mockBonus{granted: true}
	svc := newTestOnboarding(accounts, bonus)

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser() error: %v", err)
	}
	if result.ProfileUpdateErr == nil || !result.BonusGranted {
		t.Fatalf("result = %+v, want recorded profile error with granted bonus", result)
	}
}

func TestOnboardBonusFailureIsFatal(t *testing.T) {
	accounts := &mockAccounts{}
	bonus := &mockBonus{err: errors.New("wallet backend down")}
	svc := newTestOnboarding(accounts, bonus)

	if _, err := svc.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("OnboardNewUser() error = nil, want grant failure")
	}
}

func TestOnboardAlreadyGranted(t *testing.T) {
	accounts := &mockAccounts{}
	bonus := &mockBonus{granted: false}
	svc := newTestOnboarding(accounts, bonus)

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser() error: %v", err)
	}
	if result.BonusGranted {
		t.Fatal("BonusGranted = true, want false when credits were already given")
	}
	if bonus.calls != 1 {
		t.Fatalf("grant calls = %d, want 1", bonus.calls)
	}
}

func TestOnboardUnconfigured(t *testing.T) {
	svc := &Service{}
	if _, err := svc.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("unconfigured service must error")
	}
}
