// Package dataaccesstest provides in-memory implementations of the dataaccess interfaces for tests.
package dataaccesstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Jacobbrewer1/lithium/pkg/custom"
	"github.com/Jacobbrewer1/lithium/pkg/dataaccess"
	"github.com/Jacobbrewer1/lithium/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
)

// GuildConfigDal is an in-memory dataaccess.GuildConfigDal. Documents are copied on the way in and out,
// as they would be by a real database.
type GuildConfigDal struct {
	mu sync.Mutex

	// docs is nil until the collection is initialized.
	docs map[string][]byte

	// Err, when set, is returned by every call.
	Err error
}

var _ dataaccess.GuildConfigDal = (*GuildConfigDal)(nil)

// NewGuildConfigDal creates an empty store whose collection has not been initialized.
func NewGuildConfigDal() *GuildConfigDal {
	return new(GuildConfigDal)
}

// Len returns the number of stored documents.
func (d *GuildConfigDal) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.docs)
}

// Initialized reports whether the collection exists.
func (d *GuildConfigDal) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.docs != nil
}

func (d *GuildConfigDal) init() {
	if d.docs == nil {
		d.docs = make(map[string][]byte)
	}
}

func (d *GuildConfigDal) put(g *entities.GuildConfig) error {
	raw, err := bson.Marshal(g)
	if err != nil {
		return fmt.Errorf("error marshalling guild config: %w", err)
	}
	d.init()
	d.docs[g.ID] = raw
	return nil
}

func (d *GuildConfigDal) load(id string) (*entities.GuildConfig, bool, error) {
	raw, ok := d.docs[id]
	if !ok {
		return nil, false, nil
	}
	g := new(entities.GuildConfig)
	if err := bson.Unmarshal(raw, g); err != nil {
		return nil, false, fmt.Errorf("error unmarshalling guild config: %w", err)
	}
	return g, true, nil
}

func (d *GuildConfigDal) Get(_ context.Context, guildID string) (*entities.GuildConfig, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	g, ok, err := d.load(guildID)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("guild %s: %w", guildID, dataaccess.ErrNotFound)
	}
	return g, nil
}

func (d *GuildConfigDal) Add(_ context.Context, guildID string, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	if _, ok := d.docs[guildID]; ok {
		return nil
	}
	g := entities.NewGuildConfig(guildID)
	g.Version = 1
	g.UpdatedAt = custom.Now()
	return d.put(g)
}

func (d *GuildConfigDal) AddMany(_ context.Context, configs []*entities.GuildConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	now := custom.Now()
	for _, g := range configs {
		if _, ok := d.docs[g.ID]; ok {
			continue
		}
		g.Version = 1
		g.UpdatedAt = now
		if err := d.put(g); err != nil {
			return err
		}
	}
	return nil
}

func (d *GuildConfigDal) Remove(_ context.Context, guildID string, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	delete(d.docs, guildID)
	return nil
}

func (d *GuildConfigDal) ListAll(context.Context) ([]*entities.GuildConfig, error) {
	d.mu.Lock()
	initialized, err := d.docs != nil, d.Err
	d.mu.Unlock()

	if err != nil {
		return make([]*entities.GuildConfig, 0), err
	} else if !initialized {
		return make([]*entities.GuildConfig, 0), dataaccess.ErrNotInitialized
	}
	return d.filter(func(*entities.GuildConfig) bool { return true })
}

func (d *GuildConfigDal) ModifiedSince(_ context.Context, since time.Time) ([]*entities.GuildConfig, error) {
	return d.filter(func(g *entities.GuildConfig) bool {
		return !g.UpdatedAt.Time().Before(since.UTC().Truncate(time.Second))
	})
}

func (d *GuildConfigDal) filter(keep func(*entities.GuildConfig) bool) ([]*entities.GuildConfig, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return make([]*entities.GuildConfig, 0), d.Err
	}

	ids := make([]string, 0, len(d.docs))
	for id := range d.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	configs := make([]*entities.GuildConfig, 0, len(ids))
	for _, id := range ids {
		g, _, err := d.load(id)
		if err != nil {
			return make([]*entities.GuildConfig, 0), err
		}
		if keep(g) {
			configs = append(configs, g)
		}
	}
	return configs, nil
}

func (d *GuildConfigDal) Save(_ context.Context, g *entities.GuildConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	stored, ok, err := d.load(g.ID)
	if err != nil {
		return err
	}
	switch {
	case g.Version == 0 && ok:
		return fmt.Errorf("guild %s: %w", g.ID, dataaccess.ErrConflict)
	case g.Version != 0 && (!ok || stored.Version != g.Version):
		return fmt.Errorf("guild %s: %w", g.ID, dataaccess.ErrConflict)
	}

	next := *g
	next.Version = g.Version + 1
	next.UpdatedAt = custom.Now()
	if err := d.put(&next); err != nil {
		return err
	}

	g.Version = next.Version
	g.UpdatedAt = next.UpdatedAt
	return nil
}

// Maintenance is an in-memory dataaccess.Maintenance.
type Maintenance struct {
	mu sync.Mutex

	// PingErr is returned by Ping.
	PingErr error

	// Exists is whether the database has been created.
	Exists bool

	// ExistsErr is returned by DatabaseExists.
	ExistsErr error

	// CreateErr is returned by CreateDatabase.
	CreateErr error

	// Created counts the calls to CreateDatabase that succeeded.
	Created int

	backup *entities.BackupConfig
}

var _ dataaccess.Maintenance = (*Maintenance)(nil)

func (m *Maintenance) Ping(context.Context) error {
	return m.PingErr
}

func (m *Maintenance) DatabaseExists(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Exists, m.ExistsErr
}

func (m *Maintenance) CreateDatabase(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Exists = true
	m.Created++
	return nil
}

func (m *Maintenance) SaveBackupConfig(_ context.Context, cfg *entities.BackupConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cfg
	c.ID = entities.BackupConfigID
	m.backup = &c
	return nil
}

func (m *Maintenance) BackupConfig(context.Context) (*entities.BackupConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return nil, fmt.Errorf("backup config: %w", dataaccess.ErrNotFound)
	}
	c := *m.backup
	return &c, nil
}
