package client

import (
	"encoding/json"
	"time"
)

// Grant is a resource the application was granted access to.
type Grant struct {
	CreatedAt time.Time `json:"created_at"`
	Resource  struct {
		ID string `json:"id"`
	} `json:"resource"`
}

type Grants struct {
	Banlist []Grant `json:"banlist"`
	Server  []Grant `json:"server"`
}

type grantsResponse struct {
	Status bool   `json:"status"`
	Tokens Grants `json:"tokens"`
}

// GameServer is the Steamrelay view of a game server.
type GameServer struct {
	Name    string `json:"name"`
	Game    int    `json:"game"`
	Map     string `json:"map"`
	Version string `json:"version"`
	Online  bool   `json:"online"`
	Rank    int    `json:"rank"`
	Rating  int    `json:"rating"`
	Host    struct {
		Address   string `json:"address"`
		GamePort  int    `json:"gport"`
		QueryPort int    `json:"qport"`
		OS        string `json:"os"`
	} `json:"host"`
	Status struct {
		Players struct {
			Slots  int `json:"slots"`
			Online int `json:"online"`
			Queue  int `json:"queue"`
		} `json:"players"`
	} `json:"status"`
	Environment struct {
		Perspectives struct {
			FirstPerson bool `json:"1rd"`
			ThirdPerson bool `json:"3rd"`
		} `json:"perspectives"`
		Time string `json:"time"`
	} `json:"environment"`
	Security struct {
		VAC       bool `json:"vac"`
		BattlEye  bool `json:"battleye"`
		Password  bool `json:"password"`
		Whitelist bool `json:"whitelist"`
	} `json:"security"`
}

// ServerInfo is general information about a registered server.
type ServerInfo struct {
	ObjectID   string `json:"_object_id"`
	Name       string `json:"name"`
	Connection struct {
		PeerVersion      string `json:"peer_version"`
		PreferedProtocol string `json:"prefered_protocol"`
		ProtocolUsed     string `json:"protocol_used"`
		Restricted       bool   `json:"restricted"`
	} `json:"connection"`
	GameServer struct {
		Game         int    `json:"game"`
		GameServerID string `json:"gameserver_id"`
		LinkType     int    `json:"link_type"`
	} `json:"gameserver"`
	Worker struct {
		ClientID  string `json:"client_id"`
		Connected bool   `json:"connected"`
		LastSeen  string `json:"last_seen"`
	} `json:"worker"`
}

type serverInfoResponse struct {
	Status bool       `json:"status"`
	Server ServerInfo `json:"server"`
}

// ServerStatistics holds aggregated server statistics.
// The set of counters depends on the game and is returned as is.
type ServerStatistics map[string]json.RawMessage

type serverStatisticsResponse struct {
	Status     bool             `json:"status"`
	Statistics ServerStatistics `json:"statistics"`
}

// Session is an active game session (a player on the server).
type Session struct {
	ID        string    `json:"id"`
	CFToolsID string    `json:"cftools_id"`
	CreatedAt time.Time `json:"created_at"`
	Gamedata  struct {
		PlayerName string `json:"player_name"`
		Steam64    string `json:"steam64"`
	} `json:"gamedata"`
	Info struct {
		Ping    int    `json:"ping"`
		Country string `json:"country_code"`
	} `json:"info"`
	Live struct {
		Loaded bool `json:"loaded"`
	} `json:"live"`
	Persona struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	} `json:"persona"`
}

// Name returns the in-game name, falling back to the profile name.
func (s Session) Name() string {
	if s.Gamedata.PlayerName != "" {
		return s.Gamedata.PlayerName
	}
	return s.Persona.Profile.Name
}

type sessionsResponse struct {
	Status   bool      `json:"status"`
	Sessions []Session `json:"sessions"`
}

// ListEntry is a queue priority or whitelist entry.
type ListEntry struct {
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Creator   struct {
		CFToolsID string `json:"cftools_id"`
	} `json:"creator"`
	User struct {
		CFToolsID string `json:"cftools_id"`
	} `json:"user"`
	Meta struct {
		Comment    string     `json:"comment"`
		Expiration *time.Time `json:"expiration"`
		FromAPI    bool       `json:"from_api"`
	} `json:"meta"`
}

type listEntriesResponse struct {
	Status  bool        `json:"status"`
	Entries []ListEntry `json:"entries"`
}

// LeaderboardEntry is one row of a generated leaderboard.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	CFToolsID   string  `json:"cftools_id"`
	LatestName  string  `json:"latest_name"`
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Suicides    int     `json:"suicides"`
	Playtime    int64   `json:"playtime"`
	KDRatio     float64 `json:"kdratio"`
	LongestKill float64 `json:"longest_kill"`
	LongestShot float64 `json:"longest_shot"`
}

type leaderboardResponse struct {
	Status      bool               `json:"status"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// PlayerStats are the stats of one player on a server, keyed as returned by the API.
type PlayerStats map[string]json.RawMessage

// Ban is an entry of a banlist.
type Ban struct {
	ID         string     `json:"id"`
	Identifier string     `json:"identifier"`
	Format     string     `json:"format"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Issuer     struct {
		CFToolsID string `json:"cftools_id"`
	} `json:"issuer"`
}

type bansResponse struct {
	Status  bool  `json:"status"`
	Entries []Ban `json:"entries"`
}

type lookupResponse struct {
	Status    bool   `json:"status"`
	CFToolsID string `json:"cftools_id"`
}
