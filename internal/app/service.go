package app

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"council/internal/config"
	"council/internal/domain"
	"council/internal/ports"

	"github.com/google/uuid"
)

// Service contains the session use-cases: lobby management, round
// progression, proposal/vote collection and resolution. One service
// instance serves one match loop, so calls for a given session are already
// serialized; sessions never block each other.
type Service struct {
	store    ports.SessionStore
	registry *Registry
	cfg      *config.GameConfig
	deck     []domain.Scenario
	rng      *rand.Rand

	now func() time.Time
}

// NewService constructs a Service. cfg/deck/rng may be nil to use defaults.
func NewService(store ports.SessionStore, cfg *config.GameConfig, deck []domain.Scenario, rng *rand.Rand) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if len(deck) == 0 {
		deck = domain.DefaultScenarios
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:    store,
		registry: NewRegistry(),
		cfg:      cfg,
		deck:     deck,
		rng:      rng,
		now:      time.Now,
	}
}

// Registry exposes the ephemeral state registry to the gateway.
func (s *Service) Registry() *Registry { return s.registry }

// CreateSession initializes a new session record in the waiting lobby.
func (s *Service) CreateSession(ctx context.Context, id string, mode config.ModeConfig) (*domain.Session, error) {
	rounds := mode.Rounds
	if rounds <= 0 {
		rounds = s.cfg.DefaultRounds
	}
	sess := &domain.Session{
		ID:          id,
		Lobby:       domain.LobbyWaiting,
		MaxMembers:  mode.MaxPlayers,
		RoundTarget: rounds,
	}
	s.registry.OpenSession(id)
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AddMember joins a user to the session roster. Rejoining members only
// refresh their connection flag. The first human to join becomes owner.
func (s *Service) AddMember(ctx context.Context, sess *domain.Session, userID, displayName string, isBot bool) ([]Event, error) {
	if m := sess.Member(userID); m != nil {
		if !isBot {
			s.registry.SetConnected(sess.ID, userID, true)
		}
		return nil, nil
	}
	if !sess.InLobby() {
		return nil, wrongLobby("join", sess.Lobby)
	}
	if sess.MaxMembers > 0 && len(sess.Members) >= sess.MaxMembers {
		return nil, ErrSessionFull
	}

	role := domain.RoleParticipant
	if sess.Owner() == nil && !isBot {
		role = domain.RoleOwner
	}
	member := &domain.Member{UserID: userID, DisplayName: displayName, Role: role, IsBot: isBot}
	sess.Members = append(sess.Members, member)

	if isBot {
		// Bots are always ready; they never hold a connection.
		s.registry.SetReady(sess.ID, userID, true)
	} else {
		s.registry.SetConnected(sess.ID, userID, true)
	}
	s.recalcLobby(sess)

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventMemberJoined,
		Payload: MemberJoinedPayload{UserID: userID, DisplayName: displayName, Role: role, IsBot: isBot},
	}}, nil
}

// RemoveMember drops a user from the lobby roster, reassigning ownership
// and falling back to waiting (cancelling any countdown) when the roster
// shrinks below the minimum. During an active game members are never
// removed; the timeout policy covers their absences instead.
func (s *Service) RemoveMember(ctx context.Context, sess *domain.Session, userID string) ([]Event, error) {
	member := sess.Member(userID)
	if member == nil {
		return nil, ErrNotMember
	}
	if !sess.InLobby() {
		return nil, wrongLobby("leave", sess.Lobby)
	}

	for i, m := range sess.Members {
		if m.UserID == userID {
			sess.Members = append(sess.Members[:i], sess.Members[i+1:]...)
			break
		}
	}
	s.registry.ClearReady(sess.ID, userID)
	s.registry.SetConnected(sess.ID, userID, false)

	events := []Event{{Kind: EventMemberLeft, Payload: MemberLeftPayload{UserID: userID}}}

	if member.Role == domain.RoleOwner {
		for _, m := range sess.Members {
			if !m.IsBot {
				m.Role = domain.RoleOwner
				break
			}
		}
	}

	if sess.Lobby == domain.LobbyCountdown && domain.MustReturnToWaiting(len(sess.Members)) {
		sess.Lobby = domain.LobbyWaiting
		events = append(events, Event{Kind: EventCountdownCancelled, Payload: CountdownCancelledPayload{}})
	} else if sess.Lobby != domain.LobbyCountdown {
		s.recalcLobby(sess)
	}

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return events, nil
}

// MarkConnected records connection liveness without touching the roster.
func (s *Service) MarkConnected(sess *domain.Session, userID string, connected bool) {
	s.registry.SetConnected(sess.ID, userID, connected)
}

// ToggleReady flags or unflags a member as ready. Becoming ready requires
// the roster to have reached the minimum size.
func (s *Service) ToggleReady(ctx context.Context, sess *domain.Session, userID string, ready bool) ([]Event, error) {
	if sess.Member(userID) == nil {
		return nil, ErrNotMember
	}
	if !domain.LobbyAllows(sess.Lobby, domain.ActionToggleReady) {
		return nil, wrongLobby("toggle ready", sess.Lobby)
	}
	if ready && !domain.CanBecomeReady(len(sess.Members)) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewPlayers, len(sess.Members), domain.MinPlayers)
	}

	s.registry.SetReady(sess.ID, userID, ready)
	s.recalcLobby(sess)

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventReadyChanged,
		Payload: ReadyChangedPayload{
			UserID:     userID,
			Ready:      ready,
			ReadyCount: s.registry.ReadyCount(sess.ID),
			Lobby:      sess.Lobby,
		},
	}}, nil
}

// StartCountdown begins the pre-game countdown. Owner only, and only once
// the lobby is ready.
func (s *Service) StartCountdown(ctx context.Context, sess *domain.Session, userID string) ([]Event, error) {
	if err := s.validateStart(sess, userID); err != nil {
		return nil, err
	}
	if !domain.LobbyAllows(sess.Lobby, domain.ActionStartCountdown) {
		return nil, wrongLobby("start countdown", sess.Lobby)
	}

	sess.Lobby = domain.LobbyCountdown
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventCountdownStarted,
		Payload: CountdownStartedPayload{Seconds: s.cfg.CountdownSec},
	}}, nil
}

// CancelCountdown aborts a running countdown. Owner only.
func (s *Service) CancelCountdown(ctx context.Context, sess *domain.Session, userID string) ([]Event, error) {
	if !sess.IsOwner(userID) {
		return nil, ErrNotOwner
	}
	if sess.Lobby != domain.LobbyCountdown {
		return nil, wrongLobby("cancel countdown", sess.Lobby)
	}

	sess.Lobby = domain.LobbyWaiting
	s.recalcLobby(sess)
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventCountdownCancelled,
		Payload: CountdownCancelledPayload{By: userID},
	}}, nil
}

// StartSession transitions the lobby into the running game: starting
// resources are set and the round counter is zeroed. The requester must be
// the owner, the roster at the minimum, and every member ready.
func (s *Service) StartSession(ctx context.Context, sess *domain.Session, requesterID string) ([]Event, error) {
	if err := s.validateStart(sess, requesterID); err != nil {
		return nil, err
	}
	if !sess.InLobby() {
		return nil, wrongLobby("start game", sess.Lobby)
	}

	sess.Lobby = domain.LobbyInProgress
	sess.Resources = s.cfg.StartingResources()
	sess.RoundNumber = 0
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{Resources: sess.Resources, RoundTarget: sess.RoundTarget},
	}}, nil
}

func (s *Service) validateStart(sess *domain.Session, requesterID string) error {
	if !sess.IsOwner(requesterID) {
		return ErrNotOwner
	}
	if len(sess.Members) < domain.MinPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewPlayers, len(sess.Members), domain.MinPlayers)
	}
	ids := make([]string, 0, len(sess.Members))
	for _, m := range sess.Members {
		ids = append(ids, m.UserID)
	}
	if !s.registry.AllReady(sess.ID, ids) {
		return ErrNotAllReady
	}
	return nil
}

// BeginRound opens the next round: it increments the round counter, draws
// an unused scenario and enters the event-reveal phase. Returns
// ErrSessionOver when the round budget is exhausted; the caller must then
// finalize instead.
func (s *Service) BeginRound(ctx context.Context, sess *domain.Session) ([]Event, error) {
	if sess.Lobby != domain.LobbyInProgress {
		return nil, wrongLobby("begin round", sess.Lobby)
	}
	if sess.RoundNumber+1 > sess.RoundTarget {
		return nil, ErrSessionOver
	}

	scenario := domain.PickScenario(s.deck, s.registry.UsedScenarios(sess.ID), s.rng)
	s.registry.MarkScenarioUsed(sess.ID, scenario.ID)

	sess.RoundNumber++
	round := &domain.Round{
		Number:         sess.RoundNumber,
		ScenarioID:     scenario.ID,
		StartResources: sess.Resources,
		Proposals:      make(map[string]*domain.Proposal),
	}
	sess.CurrentRound = round
	s.setPhase(sess, domain.PhaseEventReveal)

	if err := s.store.SaveRound(ctx, sess.ID, round); err != nil {
		return nil, err
	}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			Number:        round.Number,
			Scenario:      scenario,
			PhaseDeadline: sess.PhaseDeadline,
		},
	}}, nil
}

// SubmitProposal upserts the member's proposal for the current round.
// Resubmission replaces the member's own proposal rather than adding a
// second one.
func (s *Service) SubmitProposal(ctx context.Context, sess *domain.Session, memberID, optionID, rationale string) ([]Event, error) {
	if sess.Member(memberID) == nil {
		return nil, ErrNotMember
	}
	round := sess.CurrentRound
	if round == nil {
		return nil, ErrNoActiveRound
	}
	if !domain.PhaseAllows(sess.Phase, domain.ActionSubmitProposal) {
		return nil, wrongPhase("submit proposal", sess.Phase)
	}
	scenario := s.scenarioByID(round.ScenarioID)
	if scenario.Option(optionID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}

	proposal := &domain.Proposal{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		OptionID:    optionID,
		Rationale:   rationale,
		SubmittedAt: s.now(),
		Votes:       make(map[string]domain.Vote),
	}
	round.Proposals[memberID] = proposal

	if err := s.store.SaveRound(ctx, sess.ID, round); err != nil {
		return nil, err
	}
	return []Event{{Kind: EventNewProposal, Payload: NewProposalPayload{Proposal: proposal}}}, nil
}

// CastVote upserts the member's vote on a proposal and recomputes the
// tally immediately. Self-votes are rejected; re-voting overwrites.
func (s *Service) CastVote(ctx context.Context, sess *domain.Session, voterID, proposalID string, choice domain.VoteChoice) ([]Event, error) {
	if sess.Member(voterID) == nil {
		return nil, ErrNotMember
	}
	round := sess.CurrentRound
	if round == nil {
		return nil, ErrNoActiveRound
	}
	if !domain.PhaseAllows(sess.Phase, domain.ActionCastVote) {
		return nil, wrongPhase("cast vote", sess.Phase)
	}
	switch choice {
	case domain.VoteYes, domain.VoteNo, domain.VoteAbstain:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	proposal := round.ProposalByID(proposalID)
	if proposal == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProposal, proposalID)
	}
	if proposal.MemberID == voterID {
		return nil, ErrSelfVote
	}

	proposal.Votes[voterID] = domain.Vote{
		ProposalID: proposalID,
		VoterID:    voterID,
		Choice:     choice,
		CastAt:     s.now(),
	}
	proposal.RecomputeTally()

	if err := s.store.SaveRound(ctx, sess.ID, round); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventVoteRecorded,
		Payload: VoteRecordedPayload{ProposalID: proposalID, VoterID: voterID, Tally: proposal.Tally},
	}}, nil
}

// AdvancePhase moves the session past its expired phase deadline. It is the
// single timer-driven entry point: the gateway calls it once per deadline
// and broadcasts the returned events.
func (s *Service) AdvancePhase(ctx context.Context, sess *domain.Session) ([]Event, error) {
	if sess.Lobby != domain.LobbyInProgress || sess.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}

	switch sess.Phase {
	case domain.PhaseEventReveal:
		s.setPhase(sess, domain.PhaseProposalOpen)
		if err := s.store.SaveSession(ctx, sess); err != nil {
			return nil, err
		}
		return []Event{{
			Kind:    EventProposalPhase,
			Payload: PhaseStartedPayload{Round: sess.RoundNumber, PhaseDeadline: sess.PhaseDeadline},
		}}, nil

	case domain.PhaseProposalOpen:
		s.fillNoActionProposals(sess)
		s.setPhase(sess, domain.PhaseVotingOpen)
		if err := s.store.SaveRound(ctx, sess.ID, sess.CurrentRound); err != nil {
			return nil, err
		}
		if err := s.store.SaveSession(ctx, sess); err != nil {
			return nil, err
		}
		return []Event{{
			Kind: EventVotingPhase,
			Payload: VotingPhaseStartedPayload{
				Round:         sess.RoundNumber,
				PhaseDeadline: sess.PhaseDeadline,
				Proposals:     sortedProposals(sess.CurrentRound),
			},
		}}, nil

	case domain.PhaseVotingOpen:
		sess.Phase = domain.PhaseResolving
		events, err := s.ResolveRound(ctx, sess)
		if err != nil {
			return nil, err
		}
		end := domain.CheckEnd(sess.Resources, sess.RoundNumber, sess.RoundTarget)
		if end.Ended && end.Early {
			finishEvents, err := s.FinishSession(ctx, sess, true)
			if err != nil {
				return events, err
			}
			return append(events, finishEvents...), nil
		}
		s.setPhase(sess, domain.PhaseResults)
		if err := s.store.SaveSession(ctx, sess); err != nil {
			return events, err
		}
		return events, nil

	case domain.PhaseResults:
		sess.Phase = domain.PhaseRoundClosed
		events, err := s.BeginRound(ctx, sess)
		if err == ErrSessionOver {
			return s.FinishSession(ctx, sess, false)
		}
		return events, err

	default:
		return nil, wrongPhase("advance", sess.Phase)
	}
}

// ResolveRound picks the winning proposal (or applies the gridlock penalty
// when none qualifies), applies the clamped resource deltas and persists
// the resolution. Calling it again on a resolved round is a no-op.
func (s *Service) ResolveRound(ctx context.Context, sess *domain.Session) ([]Event, error) {
	round := sess.CurrentRound
	if round == nil {
		return nil, ErrNoActiveRound
	}
	if round.Resolved {
		return nil, nil
	}
	if sess.Phase != domain.PhaseResolving {
		return nil, wrongPhase("resolve round", sess.Phase)
	}

	s.recordMissingAbstains(sess, round)

	scenario := s.scenarioByID(round.ScenarioID)
	winner := domain.SelectWinner(round, scenario)

	var delta domain.ResourceDelta
	var narrative string
	if winner == nil {
		round.Gridlock = true
		delta = s.cfg.GridlockPenalty()
		narrative = "The council could not agree. Unrest simmers while nothing gets done."
	} else {
		round.WinningProposalID = winner.ID
		delta, _ = scenario.OptionDelta(winner.OptionID)
		if opt := scenario.Option(winner.OptionID); opt != nil {
			narrative = fmt.Sprintf("The council chose to %s.", lowerFirst(opt.Label))
		}
	}

	newResources := sess.Resources.Apply(delta)
	maxed := domain.NewlyMaxed(sess.Resources, newResources)

	sess.Resources = newResources
	round.EndResources = newResources
	round.Resolved = true

	if err := s.store.SaveRound(ctx, sess.ID, round); err != nil {
		return nil, err
	}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventRoundResolved,
		Payload: RoundResolvedPayload{
			Number:          round.Number,
			WinningProposal: winner,
			Gridlock:        round.Gridlock,
			NewResources:    newResources,
			Narrative:       narrative,
		},
	}}
	for _, name := range maxed {
		events = append(events, Event{Kind: EventResourceMaxed, Payload: ResourceMaxedPayload{Resource: name}})
	}
	return events, nil
}

// FinishSession classifies the outcome, persists it and releases all
// ephemeral state. Reward crediting and counters are left to the gateway's
// collaborator calls so that their failures can never roll back the result.
func (s *Service) FinishSession(ctx context.Context, sess *domain.Session, earlyEnd bool) ([]Event, error) {
	if sess.Finished() {
		return nil, nil
	}

	tier, multiplier := domain.Classify(sess.Resources, earlyEnd)
	resolved := sess.RoundNumber
	if sess.CurrentRound != nil && !sess.CurrentRound.Resolved {
		resolved--
	}
	score := domain.FinalScore(s.cfg.BaseScorePerRound*resolved, multiplier)

	sess.Outcome = &domain.Outcome{Tier: tier, Multiplier: multiplier, FinalScore: score, EarlyEnd: earlyEnd}
	sess.Lobby = domain.LobbyCompleted
	sess.Phase = ""
	sess.PhaseDeadline = time.Time{}
	sess.CurrentRound = nil

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	s.registry.CloseSession(sess.ID)

	changes := make(map[string]int64)
	for _, m := range sess.Members {
		if !m.IsBot {
			changes[m.UserID] = int64(score)
		}
	}

	return []Event{{
		Kind: EventGameEnded,
		Payload: GameEndedPayload{
			Outcome:        *sess.Outcome,
			FinalResources: sess.Resources,
			Narrative:      tierNarrative(tier),
			BalanceChanges: changes,
		},
	}}, nil
}

// Abandon marks a session everyone left as abandoned and releases its
// ephemeral state.
func (s *Service) Abandon(ctx context.Context, sess *domain.Session) error {
	if sess.Finished() {
		return nil
	}
	sess.Lobby = domain.LobbyAbandoned
	sess.Phase = ""
	sess.PhaseDeadline = time.Time{}
	sess.CurrentRound = nil
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return err
	}
	s.registry.CloseSession(sess.ID)
	return nil
}

// SnapshotEvent builds the full-state event pushed to a single member on
// join.
func (s *Service) SnapshotEvent(sess *domain.Session, userID string) Event {
	return Event{
		Kind: EventSessionState,
		Payload: SessionStatePayload{
			Session: sess,
			Ready:   s.registry.ReadyUserIDs(sess.ID),
		},
		Recipients: []string{userID},
	}
}

// ScenarioForRound resolves the scenario shown in the session's current
// round, for callers outside the service (bots, snapshots).
func (s *Service) ScenarioForRound(sess *domain.Session) *domain.Scenario {
	if sess.CurrentRound == nil {
		return nil
	}
	return s.scenarioByID(sess.CurrentRound.ScenarioID)
}

func (s *Service) setPhase(sess *domain.Session, p domain.RoundPhase) {
	sess.Phase = p
	sess.PhaseDeadline = s.now().Add(time.Duration(s.cfg.PhaseDurationSec(p)) * time.Second)
}

// recalcLobby flips between waiting and ready; it never touches countdown
// or later states.
func (s *Service) recalcLobby(sess *domain.Session) {
	if sess.Lobby != domain.LobbyWaiting && sess.Lobby != domain.LobbyReady {
		return
	}
	ids := make([]string, 0, len(sess.Members))
	for _, m := range sess.Members {
		ids = append(ids, m.UserID)
	}
	if domain.CanBecomeReady(len(ids)) && s.registry.AllReady(sess.ID, ids) {
		sess.Lobby = domain.LobbyReady
	} else {
		sess.Lobby = domain.LobbyWaiting
	}
}

// fillNoActionProposals gives every member without a proposal the synthetic
// zero-effect one, so each member holds exactly one proposal per round.
func (s *Service) fillNoActionProposals(sess *domain.Session) {
	round := sess.CurrentRound
	for _, m := range sess.Members {
		if _, ok := round.Proposals[m.UserID]; !ok {
			round.Proposals[m.UserID] = domain.NewNoActionProposal(uuid.NewString(), m.UserID, s.now())
		}
	}
}

// recordMissingAbstains records members who never voted on a proposal as
// abstainers, not rejections.
func (s *Service) recordMissingAbstains(sess *domain.Session, round *domain.Round) {
	now := s.now()
	for _, p := range round.Proposals {
		for _, m := range sess.Members {
			if m.UserID == p.MemberID {
				continue
			}
			if _, ok := p.Votes[m.UserID]; !ok {
				p.Votes[m.UserID] = domain.Vote{
					ProposalID: p.ID,
					VoterID:    m.UserID,
					Choice:     domain.VoteAbstain,
					CastAt:     now,
				}
			}
		}
		p.RecomputeTally()
	}
}

func (s *Service) scenarioByID(id string) *domain.Scenario {
	for i := range s.deck {
		if s.deck[i].ID == id {
			return &s.deck[i]
		}
	}
	// Deck changed under a live session; behave as a scenario with no
	// options so only no-action proposals resolve.
	return &domain.Scenario{ID: id}
}

func sortedProposals(round *domain.Round) []*domain.Proposal {
	out := make([]*domain.Proposal, 0, len(round.Proposals))
	for _, p := range round.Proposals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out
}

func tierNarrative(tier domain.OutcomeTier) string {
	switch tier {
	case domain.TierCollapse:
		return "The state has collapsed under the council's watch."
	case domain.TierFlourishing:
		return "The state flourishes; historians will be kind to this council."
	case domain.TierProsperous:
		return "The state prospers. The council leaves it stronger than it found it."
	case domain.TierStable:
		return "The state endures, neither rising nor falling."
	default:
		return "The state declines; the next council inherits hard problems."
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}
