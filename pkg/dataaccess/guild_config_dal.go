package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/custom"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guildConfigDalName = "guild_config_dal"

// GuildConfigDal is the data access layer for guild configuration documents.
type GuildConfigDal interface {
	// Get gets the config of a guild. Returns ErrNotFound if the guild has no config.
	Get(ctx context.Context, guildID string) (*entities.GuildConfig, error)

	// Add creates the default config for a guild. Does nothing if the guild already has one.
	Add(ctx context.Context, guildID string, displayName string) error

	// AddMany creates the given configs. Configs that already exist are left untouched.
	AddMany(ctx context.Context, configs []*entities.GuildConfig) error

	// Remove deletes the config of a guild. Does nothing if the guild has no config.
	Remove(ctx context.Context, guildID string, displayName string) error

	// ListAll gets every guild config. Returns ErrNotInitialized if the collection does not exist yet.
	ListAll(ctx context.Context) ([]*entities.GuildConfig, error)

	// ModifiedSince gets every guild config saved at or after since.
	ModifiedSince(ctx context.Context, since time.Time) ([]*entities.GuildConfig, error)

	// Save writes the whole config. A config with version 0 has never been stored and is inserted.
	// Returns ErrConflict if the stored version moved on since it was loaded.
	Save(ctx context.Context, config *entities.GuildConfig) error
}

type guildConfigDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// database is the name of the database.
	database string
}

// NewGuildConfigDal creates a new guild config data access layer.
func NewGuildConfigDal(l *slog.Logger, client *mongo.Client, database DatabaseName) GuildConfigDal {
	return &guildConfigDal{
		l:        l.With(slog.String(logging.KeyDal, guildConfigDalName)),
		client:   client,
		database: string(database),
	}
}

func (d *guildConfigDal) collection() *mongo.Collection {
	return d.client.Database(d.database).Collection(collectionGuildConfigs)
}

func (d *guildConfigDal) track(query string) func() {
	return monitoring.Track(guildConfigDalName, query, d.database, collectionGuildConfigs)
}

func (d *guildConfigDal) Get(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	defer d.track("get_guild_config")()

	g := new(entities.GuildConfig)
	err := d.collection().FindOne(ctx, bson.M{"_id": guildID}).Decode(g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("guild %s: %w", guildID, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return g, nil
}

func (d *guildConfigDal) Add(ctx context.Context, guildID string, displayName string) error {
	defer d.track("add_guild_config")()

	g := entities.NewGuildConfig(guildID)
	g.Version = 1
	g.UpdatedAt = custom.Now()

	_, err := d.collection().InsertOne(ctx, g)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error adding guild config: %w", err)
	}

	if displayName == "" {
		d.l.Debug("Added server with id", slog.String(logging.KeyGuildID, guildID))
	} else {
		d.l.Debug("Created config for "+displayName, slog.String(logging.KeyGuildID, guildID))
	}
	return nil
}

func (d *guildConfigDal) AddMany(ctx context.Context, configs []*entities.GuildConfig) error {
	if len(configs) == 0 {
		return nil
	}

	defer d.track("add_many_guild_configs")()

	now := custom.Now()
	docs := make([]any, 0, len(configs))
	for _, g := range configs {
		g.Version = 1
		g.UpdatedAt = now
		docs = append(docs, g)
	}

	// Unordered so that one existing guild does not stop the rest from being inserted.
	_, err := d.collection().InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicateKeyErrors(err) {
		return fmt.Errorf("error adding guild configs: %w", err)
	}
	return nil
}

func (d *guildConfigDal) Remove(ctx context.Context, guildID string, displayName string) error {
	defer d.track("remove_guild_config")()

	if _, err := d.collection().DeleteOne(ctx, bson.M{"_id": guildID}); err != nil {
		return fmt.Errorf("error removing guild config: %w", err)
	}

	if displayName == "" {
		d.l.Debug("Removed server with id", slog.String(logging.KeyGuildID, guildID))
	} else {
		d.l.Debug("Deleted config for "+displayName, slog.String(logging.KeyGuildID, guildID))
	}
	return nil
}

func (d *guildConfigDal) ListAll(ctx context.Context) ([]*entities.GuildConfig, error) {
	defer d.track("list_guild_configs")()

	// Mongo happily queries collections that do not exist, so check for it explicitly.
	names, err := d.client.Database(d.database).ListCollectionNames(ctx, bson.M{"name": collectionGuildConfigs})
	if err != nil {
		return make([]*entities.GuildConfig, 0), fmt.Errorf("error listing collections: %w", err)
	}
	if !slices.Contains(names, collectionGuildConfigs) {
		return make([]*entities.GuildConfig, 0), ErrNotInitialized
	}

	return d.find(ctx, bson.M{})
}

func (d *guildConfigDal) ModifiedSince(ctx context.Context, since time.Time) ([]*entities.GuildConfig, error) {
	defer d.track("guild_configs_modified_since")()

	return d.find(ctx, bson.M{"updated_at": bson.M{"$gte": custom.Datetime(since).String()}})
}

func (d *guildConfigDal) find(ctx context.Context, filter bson.M) ([]*entities.GuildConfig, error) {
	cur, err := d.collection().Find(ctx, filter, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return make([]*entities.GuildConfig, 0), fmt.Errorf("error finding guild configs: %w", err)
	}

	configs := make([]*entities.GuildConfig, 0)
	if err := cur.All(ctx, &configs); err != nil {
		return make([]*entities.GuildConfig, 0), fmt.Errorf("error decoding guild configs: %w", err)
	}
	return configs, nil
}

func (d *guildConfigDal) Save(ctx context.Context, g *entities.GuildConfig) error {
	defer d.track("save_guild_config")()

	prev := g.Version

	next := *g
	next.Version = prev + 1
	next.UpdatedAt = custom.Now()

	if prev == 0 {
		// Never stored before, the config is created on its first write.
		_, err := d.collection().InsertOne(ctx, &next)
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("guild %s: %w", g.ID, ErrConflict)
		} else if err != nil {
			return fmt.Errorf("error saving guild config: %w", err)
		}
	} else {
		res, err := d.collection().ReplaceOne(ctx, bson.M{"_id": g.ID, "version": prev}, &next)
		if err != nil {
			return fmt.Errorf("error saving guild config: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("guild %s: %w", g.ID, ErrConflict)
		}
	}

	g.Version = next.Version
	g.UpdatedAt = next.UpdatedAt
	return nil
}

// onlyDuplicateKeyErrors reports whether every write error of a bulk insert is a duplicate key.
func onlyDuplicateKeyErrors(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return mongo.IsDuplicateKeyError(err)
	}
	if bwe.WriteConcernError != nil {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}
