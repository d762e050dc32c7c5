package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Jacobbrewer1/lithium/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const maintenanceDalName = "maintenance_dal"

// Maintenance manages the database itself rather than the documents in it.
type Maintenance interface {
	// Ping checks that the database engine is reachable.
	Ping(ctx context.Context) error

	// DatabaseExists reports whether the database has been created.
	DatabaseExists(ctx context.Context) (bool, error)

	// CreateDatabase creates the database.
	CreateDatabase(ctx context.Context) error

	// SaveBackupConfig stores the periodic backup schedule.
	SaveBackupConfig(ctx context.Context, cfg *entities.BackupConfig) error

	// BackupConfig gets the periodic backup schedule. Returns ErrNotFound if none has been stored.
	BackupConfig(ctx context.Context) (*entities.BackupConfig, error)
}

type maintenance struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// database is the name of the database.
	database string
}

// NewMaintenance creates a new maintenance data access layer.
func NewMaintenance(l *slog.Logger, client *mongo.Client, database DatabaseName) Maintenance {
	return &maintenance{
		l:        l.With(slog.String(logging.KeyDal, maintenanceDalName)),
		client:   client,
		database: string(database),
	}
}

func (m *maintenance) Ping(ctx context.Context) error {
	defer monitoring.Track(maintenanceDalName, "ping", "-", "-")()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

func (m *maintenance) DatabaseExists(ctx context.Context) (bool, error) {
	defer monitoring.Track(maintenanceDalName, "list_databases", "-", "-")()

	names, err := m.client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("error listing databases: %w", err)
	}
	return slices.Contains(names, m.database), nil
}

func (m *maintenance) CreateDatabase(ctx context.Context) error {
	defer monitoring.Track(maintenanceDalName, "create_database", m.database, "-")()

	// Mongo creates a database with its first collection. The guild config collection is left to be
	// created by the first guild config written, so ListAll keeps reporting ErrNotInitialized until then.
	err := m.client.Database(m.database).CreateCollection(ctx, collectionMaintenance)
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists") {
		return fmt.Errorf("error creating collection %s: %w", collectionMaintenance, err)
	}

	m.l.Info("Created database " + m.database)
	return nil
}

func (m *maintenance) SaveBackupConfig(ctx context.Context, cfg *entities.BackupConfig) error {
	defer monitoring.Track(maintenanceDalName, "save_backup_config", m.database, collectionMaintenance)()

	cfg.ID = entities.BackupConfigID
	_, err := m.client.Database(m.database).Collection(collectionMaintenance).ReplaceOne(ctx,
		bson.M{"_id": entities.BackupConfigID}, cfg, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving backup config: %w", err)
	}
	return nil
}

func (m *maintenance) BackupConfig(ctx context.Context) (*entities.BackupConfig, error) {
	defer monitoring.Track(maintenanceDalName, "get_backup_config", m.database, collectionMaintenance)()

	cfg := new(entities.BackupConfig)
	err := m.client.Database(m.database).Collection(collectionMaintenance).
		FindOne(ctx, bson.M{"_id": entities.BackupConfigID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("backup config: %w", ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("error getting backup config: %w", err)
	}
	return cfg, nil
}
