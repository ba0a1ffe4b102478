package domain

import "testing"

func TestNextPhase(t *testing.T) {
	tests := []struct {
		current RoundPhase
		next    RoundPhase
		ok      bool
	}{
		{PhaseEventReveal, PhaseProposalOpen, true},
		{PhaseProposalOpen, PhaseVotingOpen, true},
		{PhaseVotingOpen, PhaseResolving, true},
		{PhaseResolving, PhaseResults, true},
		{PhaseResults, PhaseRoundClosed, true},
		{PhaseRoundClosed, "", false},
		{"bogus", "", false},
	}

	for _, test := range tests {
		next, ok := NextPhase(test.current)
		if next != test.next || ok != test.ok {
			t.Fatalf("NextPhase(%s) = (%s, %t), want (%s, %t)", test.current, next, ok, test.next, test.ok)
		}
	}
}

func TestLobbyAllowLists(t *testing.T) {
	if !LobbyAllows(LobbyWaiting, ActionToggleReady) {
		t.Fatal("waiting lobby must accept ready toggles")
	}
	if LobbyAllows(LobbyWaiting, ActionStartCountdown) {
		t.Fatal("waiting lobby must reject countdown start")
	}
	if !LobbyAllows(LobbyReady, ActionStartCountdown) {
		t.Fatal("ready lobby must accept countdown start")
	}
	if LobbyAllows(LobbyCountdown, ActionToggleReady) {
		t.Fatal("countdown must reject ready toggles")
	}
	if !LobbyAllows(LobbyCountdown, ActionCancelCountdown) {
		t.Fatal("countdown must accept cancellation")
	}
	if LobbyAllows(LobbyCompleted, ActionChat) {
		t.Fatal("terminal states must reject everything")
	}
}

func TestPhaseAllowLists(t *testing.T) {
	if !PhaseAllows(PhaseProposalOpen, ActionSubmitProposal) {
		t.Fatal("proposal phase must accept submissions")
	}
	if PhaseAllows(PhaseVotingOpen, ActionSubmitProposal) {
		t.Fatal("voting phase must reject submissions")
	}
	if !PhaseAllows(PhaseVotingOpen, ActionCastVote) {
		t.Fatal("voting phase must accept votes")
	}
	if PhaseAllows(PhaseResults, ActionCastVote) {
		t.Fatal("results phase must reject votes")
	}
	if !PhaseAllows(PhaseEventReveal, ActionChat) {
		t.Fatal("chat is allowed in every phase")
	}
}

func TestReadyThresholds(t *testing.T) {
	if CanBecomeReady(MinPlayers - 1) {
		t.Fatal("short roster must not become ready")
	}
	if !CanBecomeReady(MinPlayers) {
		t.Fatal("minimum roster must become ready")
	}
	if MustReturnToWaiting(MinPlayers) {
		t.Fatal("minimum roster must not fall back to waiting")
	}
	if !MustReturnToWaiting(MinPlayers - 1) {
		t.Fatal("short roster must fall back to waiting")
	}
}
