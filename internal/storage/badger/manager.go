package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
)

// Manager bundles the typed storages over one badger instance.
type Manager struct {
	db          *BadgerDB
	logger      arbor.ILogger
	contents    interfaces.ContentStorage
	statuses    interfaces.IndexStatusStorage
	threads     interfaces.ThreadStorage
	queries     interfaces.QueryStorage
	enrollments interfaces.EnrollmentStorage
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager opens the database and wires the per-entity storages.
func NewManager(logger arbor.ILogger, config *common.StorageConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:          db,
		logger:      logger,
		contents:    NewContentStorage(db, logger),
		statuses:    NewIndexStatusStorage(db, logger),
		threads:     NewThreadStorage(db, logger),
		queries:     NewQueryStorage(db, logger),
		enrollments: NewEnrollmentStorage(db, logger),
	}, nil
}

func (m *Manager) ContentStorage() interfaces.ContentStorage         { return m.contents }
func (m *Manager) IndexStatusStorage() interfaces.IndexStatusStorage { return m.statuses }
func (m *Manager) ThreadStorage() interfaces.ThreadStorage           { return m.threads }
func (m *Manager) QueryStorage() interfaces.QueryStorage             { return m.queries }
func (m *Manager) EnrollmentStorage() interfaces.EnrollmentStorage   { return m.enrollments }

// DB exposes the connection for maintenance tasks (value-log GC).
func (m *Manager) DB() *BadgerDB {
	return m.db
}

func (m *Manager) Close() error {
	return m.db.Close()
}
