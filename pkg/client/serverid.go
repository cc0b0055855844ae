package client

import (
	"crypto/sha1"
	"encoding/hex"
)

// GameServerID builds the Data API resource id of a game server.
//
// The Steamrelay service queries game servers of supported games every 30 to 60
// seconds. Their data is addressed by the SHA-1 hex digest of the game identifier,
// the IPv4 address and the game port concatenated without separators.
// The game identifier for DayZ is "1".
func GameServerID(gameIdentifier, ip, port string) string {
	sum := sha1.Sum([]byte(gameIdentifier + ip + port))
	return hex.EncodeToString(sum[:])
}
