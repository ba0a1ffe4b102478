package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"council/internal/ports"
)

const (
	defaultWelcomeBonusCredits = 500
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// BonusGranted is false when the welcome credits were already given.
	BonusGranted bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	bonus    ports.WelcomeBonusPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/bonus must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, bonus ports.WelcomeBonusPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		bonus:    bonus,
		rng:      rng,
	}
}

// OnboardNewUser initializes profile and wallet for a newly created account.
// The profile update is best-effort; the welcome grant is the part that must
// succeed, and it is applied at most once per account.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.bonus == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		result.ProfileUpdateErr = err
	}

	granted, err := s.bonus.GrantWelcomeBonusOnce(ctx, userID, defaultWelcomeBonusCredits, map[string]interface{}{
		"reason": "welcome_bonus",
	})
	if err != nil {
		return result, fmt.Errorf("failed to grant welcome bonus: %w", err)
	}
	result.BonusGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Prudent", "Stern", "Shrewd", "Bold", "Patient", "Cunning", "Fair", "Stoic", "Keen", "Humble"}
	nouns := []string{"Envoy", "Consul", "Steward", "Magistrate", "Warden", "Scribe", "Regent", "Tribune", "Bailiff", "Elder"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
