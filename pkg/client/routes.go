package client

const (
	AuthRegisterRoute = "/v1/auth/register"
	GrantsRoute       = "/v1/@app/grants"
	GameServerRoute   = "/v1/gameserver/{server_id}"
	UserLookupRoute   = "/v1/users/lookup"

	// all server routes require a server API id and an active grant
	ServerParent           = "/v1/server/{server_api_id}/"
	ServerInfoRoute        = ServerParent + "info"
	ServerStatisticsRoute  = ServerParent + "statistics"
	ServerPlayerListRoute  = ServerParent + "GSM/list"
	ServerKickRoute        = ServerParent + "kick"
	ServerPrivateMsgRoute  = ServerParent + "message-private"
	ServerBroadcastRoute   = ServerParent + "message-server"
	ServerRawCommandRoute  = ServerParent + "raw"
	ServerQueueRoute       = ServerParent + "queuepriority"
	ServerWhitelistRoute   = ServerParent + "whitelist"
	ServerLeaderboardRoute = ServerParent + "leaderboard"
	ServerPlayerStatsRoute = ServerParent + "player"

	// GameLabs routes are still on v0
	GameLabsParent = "/v0/server/{server_api_id}/gameLabs/"
	TeleportRoute  = GameLabsParent + "teleport"
	SpawnRoute     = GameLabsParent + "spawn"

	BanlistRoute = "/v1/banlist/{banlist_id}/bans"
)
