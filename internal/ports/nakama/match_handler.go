package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"council/internal/app"
	"council/internal/bot"
	"council/internal/config"
	"council/internal/domain"
	"council/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchLabel is the JSON label published for match listing queries.
type matchLabel struct {
	Open  int    `json:"open"`
	Mode  string `json:"mode"`
	State string `json:"state"`
}

// MatchState holds the authoritative runtime state for one session. The
// match loop runs at one tick per second and is the only writer, so no
// session ever has more than one pending phase transition.
type MatchState struct {
	Session   *domain.Session
	Mode      config.ModeConfig
	Reserved  map[string]bool             // seats held for matchmade players
	Presences map[string]runtime.Presence // user id -> live connection
	Svc       *app.Service
	Cfg       *config.GameConfig
	Rng       *rand.Rand
	Tick      int64

	CountdownEndsAt int64 // tick at which the countdown completes; 0 when idle
	FinishedAtTick  int64 // tick at which the session reached a terminal state
	EmptySinceTick  int64 // tick since the last human connection dropped

	Agent    *bot.Agent
	BotPool  []bot.Identity
	BotActAt map[string]int64 // bot user id -> tick to act in the current phase
	botKey   string           // round/phase the BotActAt schedule was built for

	Disconnected map[string]int64 // user id -> tick of disconnect

	Economy  ports.EconomyPort
	Stats    ports.StatsPort
	Notifier ports.NotifierPort
}

// lingerTicks keeps the match alive briefly after game end so final
// broadcasts reach slow clients.
const lingerTicks = 5

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg.ApplyEnv(env)
	}

	deck, err := config.LoadScenarios("data/scenarios.json")
	if err != nil {
		logger.Warn("MatchInit: Could not load scenario deck, using built-in: %v", err)
		deck = domain.DefaultScenarios
	}
	pool, err := bot.LoadIdentities("data/bot_identities.json")
	if err != nil {
		logger.Warn("MatchInit: Could not load bot identities, using built-in: %v", err)
		pool = bot.DefaultIdentities
	}

	modeID := ""
	if v, ok := params[matchParamMode].(string); ok {
		modeID = v
	}
	mode := cfg.Mode(modeID)

	reserved := make(map[string]bool)
	if list, ok := params[matchParamReserved].([]interface{}); ok {
		for _, v := range list {
			if id, ok := v.(string); ok {
				reserved[id] = true
			}
		}
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := app.NewService(NewNakamaSessionStoreAdapter(nk), cfg, deck, rng)

	sess, err := svc.CreateSession(ctx, matchID, mode)
	if err != nil {
		logger.Error("MatchInit: Failed to create session record: %v", err)
		return nil, 0, ""
	}

	state := &MatchState{
		Session:      sess,
		Mode:         mode,
		Reserved:     reserved,
		Presences:    make(map[string]runtime.Presence),
		Svc:          svc,
		Cfg:          cfg,
		Rng:          rng,
		Agent:        bot.NewAgent(rng),
		BotPool:      pool,
		BotActAt:     make(map[string]int64),
		Disconnected: make(map[string]int64),
		Economy:      NewNakamaEconomyAdapter(nk),
		Stats:        NewNakamaStatsAdapter(nk),
		Notifier:     NewNakamaNotifierAdapter(nk),
	}

	tickRate := 1
	return state, tickRate, mh.labelString(state, logger)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	sess := matchState.Session
	userID := presence.GetUserId()

	// Members may always rejoin, matchmade players always get their seat.
	if sess.Member(userID) != nil || matchState.Reserved[userID] {
		return state, true, ""
	}
	if !sess.InLobby() {
		return state, false, "game in progress"
	}
	if sess.MaxMembers > 0 && len(sess.Members) >= sess.MaxMembers {
		return state, false, "session full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	sess := matchState.Session

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		delete(matchState.Disconnected, userID)
		matchState.EmptySinceTick = 0

		events, err := matchState.Svc.AddMember(ctx, sess, userID, p.GetUsername(), false)
		if err != nil {
			logger.Warn("MatchJoin: Could not add %s to roster: %v", userID, err)
			continue
		}
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)

		// Full snapshot to the joining connection only.
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, []app.Event{matchState.Svc.SnapshotEvent(sess, userID)})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave records the disconnect; roster removal waits for the grace
// sweep so brief drops can rejoin without losing their seat.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		matchState.Svc.MarkConnected(matchState.Session, userID, false)
		matchState.Disconnected[userID] = tick
		logger.Debug("MatchLeave: %s disconnected at tick %d", userID, tick)
	}

	if len(matchState.Presences) == 0 && matchState.EmptySinceTick == 0 {
		matchState.EmptySinceTick = tick
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpCodeToggleReady:
			mh.handleToggleReady(ctx, matchState, dispatcher, logger, msg)
		case OpCodeStartCountdown:
			mh.handleStartCountdown(ctx, matchState, dispatcher, logger, msg)
		case OpCodeCancelCountdown:
			mh.handleCancelCountdown(ctx, matchState, dispatcher, logger, msg)
		case OpCodeSubmitProposal:
			mh.handleSubmitProposal(ctx, matchState, dispatcher, logger, msg)
		case OpCodeCastVote:
			mh.handleCastVote(ctx, matchState, dispatcher, logger, msg)
		case OpCodeChat:
			mh.handleChat(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if stop := mh.sweepDisconnects(ctx, matchState, dispatcher, logger); stop {
		return nil
	}
	mh.tickCountdown(ctx, matchState, dispatcher, logger)
	mh.tickPhase(ctx, matchState, dispatcher, logger)
	if matchState.Cfg.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	if matchState.Session.Finished() {
		if matchState.FinishedAtTick == 0 {
			matchState.FinishedAtTick = tick
		}
		if tick-matchState.FinishedAtTick >= lingerTicks {
			logger.Info("MatchLoop: Session %s finished, terminating match.", matchState.Session.ID)
			return nil
		}
	}
	return matchState
}

type toggleReadyRequest struct {
	Ready bool `json:"ready"`
}

type submitProposalRequest struct {
	OptionID  string `json:"option_id"`
	Rationale string `json:"rationale"`
}

type castVoteRequest struct {
	ProposalID string `json:"proposal_id"`
	Choice     string `json:"choice"`
}

type chatRequest struct {
	Text string `json:"text"`
}

func (mh *matchHandler) handleToggleReady(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req toggleReadyRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed request")
		return
	}
	events, err := state.Svc.ToggleReady(ctx, state.Session, msg.GetUserId(), req.Ready)
	if err != nil {
		logger.Debug("ToggleReady: %s rejected: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleStartCountdown(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.Svc.StartCountdown(ctx, state.Session, msg.GetUserId())
	if err != nil {
		logger.Debug("StartCountdown: %s rejected: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrorCode(err), err.Error())
		return
	}
	state.CountdownEndsAt = state.Tick + int64(state.Cfg.CountdownSec)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleCancelCountdown(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.Svc.CancelCountdown(ctx, state.Session, msg.GetUserId())
	if err != nil {
		logger.Debug("CancelCountdown: %s rejected: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrorCode(err), err.Error())
		return
	}
	state.CountdownEndsAt = 0
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleSubmitProposal(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req submitProposalRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed request")
		return
	}
	events, err := state.Svc.SubmitProposal(ctx, state.Session, msg.GetUserId(), req.OptionID, req.Rationale)
	if err != nil {
		logger.Debug("SubmitProposal: %s rejected: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleCastVote(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req castVoteRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed request")
		return
	}
	events, err := state.Svc.CastVote(ctx, state.Session, msg.GetUserId(), req.ProposalID, domain.VoteChoice(req.Choice))
	if err != nil {
		logger.Debug("CastVote: %s rejected: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleChat(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	sess := state.Session
	userID := msg.GetUserId()
	if sess.Member(userID) == nil {
		mh.sendError(state, dispatcher, logger, userID, 403, app.ErrNotMember.Error())
		return
	}
	if !domain.LobbyAllows(sess.Lobby, domain.ActionChat) {
		mh.sendError(state, dispatcher, logger, userID, 409, "chat not allowed right now")
		return
	}
	var req chatRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil || req.Text == "" {
		mh.sendError(state, dispatcher, logger, userID, 400, "malformed request")
		return
	}
	data, err := json.Marshal(chatMessage{UserID: userID, Text: req.Text})
	if err != nil {
		logger.Error("Chat: Failed to marshal message: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpCodeChatMessage, data, nil, nil, true)
}

// tickCountdown runs the once-per-second countdown broadcast and, when the
// countdown completes uncancelled, fills open seats with bots and starts
// the game.
func (mh *matchHandler) tickCountdown(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sess := state.Session
	if sess.Lobby != domain.LobbyCountdown {
		if sess.InLobby() {
			state.CountdownEndsAt = 0
		}
		return
	}
	if state.CountdownEndsAt == 0 {
		state.CountdownEndsAt = state.Tick + int64(state.Cfg.CountdownSec)
	}

	remaining := state.CountdownEndsAt - state.Tick
	if remaining > 0 {
		data, err := json.Marshal(countdownTick{Remaining: int(remaining)})
		if err == nil {
			dispatcher.BroadcastMessage(OpCodeCountdownTick, data, nil, nil, true)
		}
		return
	}

	state.CountdownEndsAt = 0
	mh.fillBots(ctx, state, dispatcher, logger)

	owner := sess.Owner()
	if owner == nil {
		logger.Error("tickCountdown: Countdown completed with no owner on roster.")
		return
	}
	events, err := state.Svc.StartSession(ctx, sess, owner.UserID)
	if err != nil {
		logger.Error("tickCountdown: Failed to start session %s: %v", sess.ID, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	roundEvents, err := state.Svc.BeginRound(ctx, sess)
	if err != nil {
		logger.Error("tickCountdown: Failed to begin round for %s: %v", sess.ID, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, roundEvents)
	mh.updateLabel(state, dispatcher, logger)
}

// fillBots tops the roster up to the mode's party size with bot members.
// A full lobby skips the state entirely.
func (mh *matchHandler) fillBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sess := state.Session
	open := state.Mode.MaxPlayers - len(sess.Members)
	if !state.Cfg.BotsEnabled || open <= 0 {
		return
	}

	sess.Lobby = domain.LobbyBotFill
	inUse := make(map[string]bool, len(sess.Members))
	for _, m := range sess.Members {
		inUse[m.UserID] = true
	}
	for _, id := range bot.Pick(state.Rng, state.BotPool, open, inUse) {
		events, err := state.Svc.AddMember(ctx, sess, id.UserID, id.DisplayName, true)
		if err != nil {
			logger.Warn("fillBots: Could not seat bot %s: %v", id.UserID, err)
			continue
		}
		logger.Info("fillBots: Seated bot %s in session %s", id.UserID, sess.ID)
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}
}

// tickPhase advances the round when the phase deadline has passed. A failed
// advance is logged and retried on the next tick; the session stalls rather
// than crashing the loop.
func (mh *matchHandler) tickPhase(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sess := state.Session
	if sess.Lobby != domain.LobbyInProgress || sess.CurrentRound == nil {
		return
	}
	if sess.PhaseDeadline.IsZero() || time.Now().Before(sess.PhaseDeadline) {
		return
	}

	events, err := state.Svc.AdvancePhase(ctx, sess)
	if err != nil {
		logger.Error("tickPhase: Session %s stalled in %s: %v", sess.ID, sess.Phase, err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if sess.Finished() {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// processBots lets seated bots submit proposals and cast votes after their
// randomized think delays.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sess := state.Session
	if sess.Lobby != domain.LobbyInProgress || sess.CurrentRound == nil {
		return
	}
	if sess.Phase != domain.PhaseProposalOpen && sess.Phase != domain.PhaseVotingOpen {
		return
	}

	key := fmt.Sprintf("%d:%s", sess.RoundNumber, sess.Phase)
	if key != state.botKey {
		state.botKey = key
		state.BotActAt = make(map[string]int64)
	}

	scenario := state.Svc.ScenarioForRound(sess)
	if scenario == nil {
		return
	}
	round := sess.CurrentRound

	for _, m := range sess.Members {
		if !m.IsBot {
			continue
		}
		actAt, scheduled := state.BotActAt[m.UserID]
		if !scheduled {
			delay := state.Agent.DelaySec(state.Cfg.BotMinDelaySec, state.Cfg.BotMaxDelaySec)
			state.BotActAt[m.UserID] = state.Tick + int64(delay)
			continue
		}
		if state.Tick < actAt {
			continue
		}

		switch sess.Phase {
		case domain.PhaseProposalOpen:
			if _, done := round.Proposals[m.UserID]; done {
				continue
			}
			optionID := state.Agent.ChooseOption(*scenario, sess.Resources)
			events, err := state.Svc.SubmitProposal(ctx, sess, m.UserID, optionID, state.Agent.Rationale(*scenario, optionID))
			if err != nil {
				logger.Warn("processBots: Bot %s failed to propose: %v", m.UserID, err)
				continue
			}
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)

		case domain.PhaseVotingOpen:
			for _, p := range round.Proposals {
				if p.MemberID == m.UserID {
					continue
				}
				if _, voted := p.Votes[m.UserID]; voted {
					continue
				}
				choice := state.Agent.Vote(*scenario, sess.Resources, p)
				events, err := state.Svc.CastVote(ctx, sess, m.UserID, p.ID, choice)
				if err != nil {
					logger.Warn("processBots: Bot %s failed to vote: %v", m.UserID, err)
					continue
				}
				mh.dispatchEvents(ctx, state, dispatcher, logger, events)
			}
		}
	}
}

// sweepDisconnects enforces the grace windows: lobby drops lose their seat
// after the short grace, in-game drops are covered by the timeout policy,
// and a session with every connection gone for the long grace is abandoned.
// Returns true when the match should terminate.
func (mh *matchHandler) sweepDisconnects(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) bool {
	sess := state.Session

	for userID, since := range state.Disconnected {
		if sess.Member(userID) == nil {
			delete(state.Disconnected, userID)
			continue
		}
		elapsed := state.Tick - since
		if sess.InLobby() && elapsed >= int64(state.Cfg.LobbyGraceSec) {
			events, err := state.Svc.RemoveMember(ctx, sess, userID)
			if err != nil {
				logger.Warn("sweepDisconnects: Could not drop %s: %v", userID, err)
				continue
			}
			delete(state.Disconnected, userID)
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
			mh.updateLabel(state, dispatcher, logger)
		} else if sess.Lobby == domain.LobbyInProgress && elapsed == int64(state.Cfg.GameGraceSec) {
			// Seat stays; missing proposals and votes fall to the timeout fill.
			logger.Info("sweepDisconnects: %s away past game grace; auto-fill covers them.", userID)
		}
	}

	if sess.InLobby() && sess.HumanCount() == 0 && len(sess.Members) > 0 {
		logger.Info("sweepDisconnects: No humans left in lobby, abandoning %s.", sess.ID)
		if err := state.Svc.Abandon(ctx, sess); err != nil {
			logger.Error("sweepDisconnects: Failed to abandon %s: %v", sess.ID, err)
		}
		return true
	}

	if len(state.Presences) == 0 && state.EmptySinceTick > 0 &&
		state.Tick-state.EmptySinceTick >= int64(state.Cfg.AbandonGraceSec) && !sess.Finished() {
		logger.Info("sweepDisconnects: All members gone past abandon grace, abandoning %s.", sess.ID)
		if err := state.Svc.Abandon(ctx, sess); err != nil {
			logger.Error("sweepDisconnects: Failed to abandon %s: %v", sess.ID, err)
		}
		return true
	}
	return false
}

// dispatchEvents serializes and broadcasts session events, honoring
// targeted recipients, and runs the collaborator side effects attached to
// game end.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}
		if opCode == 0 {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events with no connected recipient must not leak to
			// the rest of the session.
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)

		if ev.Kind == app.EventGameEnded {
			if payload, ok := ev.Payload.(app.GameEndedPayload); ok {
				mh.settleGameEnd(ctx, state, logger, payload)
			}
		}
	}
}

// settleGameEnd runs the fire-and-forget collaborator calls after a game
// completes: wallet credits, play counters and completion notifications.
// Failures are logged and never touch the persisted outcome.
func (mh *matchHandler) settleGameEnd(ctx context.Context, state *MatchState, logger runtime.Logger, payload app.GameEndedPayload) {
	sess := state.Session

	updates := make([]ports.WalletUpdate, 0, len(payload.BalanceChanges))
	humans := make([]string, 0, len(payload.BalanceChanges))
	for userID, amount := range payload.BalanceChanges {
		humans = append(humans, userID)
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"session_id": sess.ID,
				"reason":     "session_reward",
			},
		})
	}

	if state.Economy != nil {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settleGameEnd: Failed to credit rewards: %v", err)
		}
	}
	if state.Stats != nil {
		if err := state.Stats.IncrementPlayCounts(ctx, humans, !payload.Outcome.EarlyEnd); err != nil {
			logger.Error("settleGameEnd: Failed to bump play counts: %v", err)
		}
	}
	if state.Notifier != nil {
		for _, userID := range humans {
			err := state.Notifier.Send(ctx, userID, "Session complete", map[string]interface{}{
				"session_id":  sess.ID,
				"tier":        string(payload.Outcome.Tier),
				"final_score": payload.Outcome.FinalScore,
			}, ports.NotifyCodeGameComplete)
			if err != nil {
				logger.Warn("settleGameEnd: Could not notify %s: %v", userID, err)
			}
		}
	}
}

// sendError sends a typed rejection to a specific user only.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := json.Marshal(errorReply{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error reply: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpCodeError, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) labelString(state *MatchState, logger runtime.Logger) string {
	sess := state.Session
	open := 0
	lobbyState := "playing"
	if sess.InLobby() {
		lobbyState = "lobby"
		if sess.MaxMembers > 0 {
			open = sess.MaxMembers - len(sess.Members)
		}
	} else if sess.Finished() {
		lobbyState = "done"
	}

	data, err := json.Marshal(matchLabel{Open: open, Mode: state.Mode.ID, State: lobbyState})
	if err != nil {
		logger.Error("Failed to marshal match label: %v", err)
		return "{}"
	}
	return string(data)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(mh.labelString(state, logger)); err != nil {
		logger.Error("Failed to update match label: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
