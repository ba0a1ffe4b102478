package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"council/internal/app"
	"council/internal/app/matchmaking"
	"council/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers the client-facing RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcEnqueueMatchmaking: rpcEnqueueMatchmaking,
		RpcCancelMatchmaking:  rpcCancelMatchmaking,
		RpcSessionVoiceToken:  rpcSessionVoiceToken,
		RpcCreateSession:      rpcCreateSession,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

type enqueueRequest struct {
	Mode     string `json:"mode"`
	Priority bool   `json:"priority"`
}

type enqueueResponse struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

func rpcEnqueueMatchmaking(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	req := enqueueRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("malformed payload", 3)
		}
	}
	mode := config.GetGameConfig().Mode(req.Mode)

	svc := matchmaking.NewService(NewNakamaTicketStoreAdapter(nk), NewNakamaSessionCreatorAdapter(nk), NewNakamaNotifierAdapter(nk))
	ticket, err := svc.Enqueue(ctx, userID, mode, req.Priority)
	if err != nil {
		logger.Error("rpcEnqueueMatchmaking [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to enqueue", 13)
	}

	b, _ := json.Marshal(enqueueResponse{TicketID: ticket.ID, Status: string(ticket.Status)})
	return string(b), nil
}

type cancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

func rpcCancelMatchmaking(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	svc := matchmaking.NewService(NewNakamaTicketStoreAdapter(nk), NewNakamaSessionCreatorAdapter(nk), NewNakamaNotifierAdapter(nk))
	err := svc.Cancel(ctx, userID)
	if errors.Is(err, matchmaking.ErrNoTicket) {
		b, _ := json.Marshal(cancelResponse{Cancelled: false})
		return string(b), nil
	}
	if err != nil {
		logger.Error("rpcCancelMatchmaking [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to cancel", 13)
	}

	b, _ := json.Marshal(cancelResponse{Cancelled: true})
	return string(b), nil
}

type voiceTokenRequest struct {
	Action    string `json:"action"`
	SessionID string `json:"session_id"`
}

type voiceTokenResponse struct {
	Token string `json:"token"`
}

func rpcSessionVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	req := voiceTokenRequest{}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("malformed payload", 3)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	svc := app.NewVoiceService(env["council_voice_secret"], env["council_voice_issuer"], env["council_voice_domain"])
	token, err := svc.GenerateToken(userID, req.Action, req.SessionID)
	if err != nil {
		logger.Error("rpcSessionVoiceToken [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to issue voice token", 13)
	}

	b, _ := json.Marshal(voiceTokenResponse{Token: token})
	return string(b), nil
}

type createSessionRequest struct {
	Mode string `json:"mode"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// rpcCreateSession creates a private session directly, bypassing the
// matchmaking queue; the caller shares the id with their party.
func rpcCreateSession(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	req := createSessionRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("malformed payload", 3)
		}
	}
	mode := config.GetGameConfig().Mode(req.Mode)

	matchID, err := nk.MatchCreate(ctx, MatchNameCouncil, map[string]interface{}{
		matchParamMode: mode.ID,
	})
	if err != nil {
		logger.Error("rpcCreateSession [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to create session", 13)
	}

	b, _ := json.Marshal(createSessionResponse{SessionID: matchID})
	return string(b), nil
}
