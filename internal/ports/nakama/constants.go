package nakama

// MatchNameCouncil is the authoritative match handler name registered with
// the runtime; matchmaking creates matches by this name.
const MatchNameCouncil = "council"

// Match label keys used in listing queries.
const (
	MatchLabelKey_Open  = "open"
	MatchLabelKey_Mode  = "mode"
	MatchLabelKey_State = "state"
)

// RPC ids exposed to clients.
const (
	RpcEnqueueMatchmaking = "enqueue_matchmaking"
	RpcCancelMatchmaking  = "cancel_matchmaking"
	RpcSessionVoiceToken  = "session_voice_token"
	RpcCreateSession      = "create_session"
)

// Client -> server opcodes.
const (
	OpCodeToggleReady     int64 = 1
	OpCodeStartCountdown  int64 = 2
	OpCodeCancelCountdown int64 = 3
	OpCodeSubmitProposal  int64 = 4
	OpCodeCastVote        int64 = 5
	OpCodeChat            int64 = 6
)

// Server -> client opcodes. One per session event, plus chat relay and the
// targeted error reply.
const (
	OpCodeSessionState       int64 = 101
	OpCodeMemberJoined       int64 = 102
	OpCodeMemberLeft         int64 = 103
	OpCodeReadyChanged       int64 = 104
	OpCodeCountdownStarted   int64 = 105
	OpCodeCountdownTick      int64 = 106
	OpCodeCountdownCancelled int64 = 107
	OpCodeGameStarted        int64 = 108
	OpCodeRoundStarted       int64 = 109
	OpCodeProposalPhase      int64 = 110
	OpCodeNewProposal        int64 = 111
	OpCodeVotingPhase        int64 = 112
	OpCodeVoteRecorded       int64 = 113
	OpCodeRoundResolved      int64 = 114
	OpCodeResourceMaxed      int64 = 115
	OpCodeGameEnded          int64 = 116
	OpCodeChatMessage        int64 = 117
	OpCodeError              int64 = 118
)
