package dataaccess

import "errors"

// DatabaseName is the name of the Mongo database the bot stores its documents in.
type DatabaseName string

const (
	// collectionGuildConfigs holds one GuildConfig document per guild.
	collectionGuildConfigs = "guild_configs"

	// collectionMaintenance holds documents describing the database itself, such as the backup schedule.
	collectionMaintenance = "maintenance"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrNotInitialized is returned when the guild config collection has not been created yet.
	ErrNotInitialized = errors.New("guild config collection not initialized")

	// ErrConflict is returned when a document was changed by someone else since it was loaded.
	ErrConflict = errors.New("document was modified concurrently")
)
