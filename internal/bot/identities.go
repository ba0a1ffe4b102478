package bot

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// IDPrefix marks synthetic roster members. Bot user ids never collide with
// Nakama account ids, which are uuids.
const IDPrefix = "bot:"

// IsBot reports whether a user id belongs to a synthetic member.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, IDPrefix)
}

// Identity is one entry of the bot roster pool.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// DefaultIdentities is the built-in pool used when no file is configured.
var DefaultIdentities = []Identity{
	{UserID: IDPrefix + "aldric", DisplayName: "Councilor Aldric"},
	{UserID: IDPrefix + "beatrix", DisplayName: "Councilor Beatrix"},
	{UserID: IDPrefix + "cassius", DisplayName: "Councilor Cassius"},
	{UserID: IDPrefix + "demelza", DisplayName: "Councilor Demelza"},
	{UserID: IDPrefix + "edwin", DisplayName: "Councilor Edwin"},
	{UserID: IDPrefix + "freya", DisplayName: "Councilor Freya"},
	{UserID: IDPrefix + "gideon", DisplayName: "Councilor Gideon"},
	{UserID: IDPrefix + "helga", DisplayName: "Councilor Helga"},
}

// LoadIdentities reads a bot roster file. An empty path returns the
// built-in pool.
func LoadIdentities(path string) ([]Identity, error) {
	if path == "" {
		return DefaultIdentities, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities %s: %w", path, err)
	}
	var pool []Identity
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse bot identities %s: %w", path, err)
	}
	for i, id := range pool {
		if id.UserID == "" || id.DisplayName == "" {
			return nil, fmt.Errorf("bot identity %d is missing user_id or display_name", i)
		}
		if !IsBot(id.UserID) {
			pool[i].UserID = IDPrefix + id.UserID
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("bot identities %s is empty", path)
	}
	return pool, nil
}

// Pick selects up to n identities from the pool that are not already in use,
// in random order.
func Pick(rng *rand.Rand, pool []Identity, n int, inUse map[string]bool) []Identity {
	var free []Identity
	for _, id := range pool {
		if !inUse[id.UserID] {
			free = append(free, id)
		}
	}
	rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})
	if len(free) > n {
		free = free[:n]
	}
	return free
}
