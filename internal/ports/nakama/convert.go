package nakama

import (
	"encoding/json"

	"council/internal/app"
)

// eventOpCode maps a session event kind to its wire opcode; ok is false for
// kinds the gateway does not dispatch.
func eventOpCode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventSessionState:
		return OpCodeSessionState, true
	case app.EventMemberJoined:
		return OpCodeMemberJoined, true
	case app.EventMemberLeft:
		return OpCodeMemberLeft, true
	case app.EventReadyChanged:
		return OpCodeReadyChanged, true
	case app.EventCountdownStarted:
		return OpCodeCountdownStarted, true
	case app.EventCountdownCancelled:
		return OpCodeCountdownCancelled, true
	case app.EventGameStarted:
		return OpCodeGameStarted, true
	case app.EventRoundStarted:
		return OpCodeRoundStarted, true
	case app.EventProposalPhase:
		return OpCodeProposalPhase, true
	case app.EventNewProposal:
		return OpCodeNewProposal, true
	case app.EventVotingPhase:
		return OpCodeVotingPhase, true
	case app.EventVoteRecorded:
		return OpCodeVoteRecorded, true
	case app.EventRoundResolved:
		return OpCodeRoundResolved, true
	case app.EventResourceMaxed:
		return OpCodeResourceMaxed, true
	case app.EventGameEnded:
		return OpCodeGameEnded, true
	default:
		return 0, false
	}
}

// encodeEvent serializes an event payload for dispatch.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	opCode, ok := eventOpCode(ev.Kind)
	if !ok {
		return 0, nil, nil
	}
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return 0, nil, err
	}
	return opCode, data, nil
}

// errorReply is the targeted rejection payload sent back to the requesting
// connection only.
type errorReply struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// chatMessage is the relayed chat payload.
type chatMessage struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// countdownTick is broadcast once per second while the countdown runs.
type countdownTick struct {
	Remaining int `json:"remaining"`
}
