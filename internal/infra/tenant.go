package infra

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var dbNamePattern = regexp.MustCompile(`^user_[a-z0-9._-]+\.db$`)

// ValidDBName reports whether name is a tenant store file name produced at
// registration. Path separators never match.
func ValidDBName(name string) bool {
	return dbNamePattern.MatchString(name)
}

// TenantManager hands out one *gorm.DB per tenant store, opened lazily.
// Stores of different tenants never share a connection or a lock: the map
// mutex only guards lookups, and each store is opened under its own once.
type TenantManager struct {
	dir  string
	opts SQLiteOptions
	open func(path string) (*gorm.DB, error)

	mu  sync.Mutex
	dbs map[string]*tenantStore
}

type tenantStore struct {
	once sync.Once
	db   *gorm.DB
	err  error
}

func NewTenantManager(dir string, opts SQLiteOptions) *TenantManager {
	m := &TenantManager{dir: dir, opts: opts, dbs: make(map[string]*tenantStore)}
	m.open = m.openStore
	return m
}

// Get returns the store for dbName, opening it and installing the schema on
// first use. A failed open is forgotten so the next call tries again.
func (m *TenantManager) Get(dbName string) (*gorm.DB, error) {
	if !ValidDBName(dbName) {
		return nil, fmt.Errorf("invalid tenant db name %q", dbName)
	}

	m.mu.Lock()
	st, ok := m.dbs[dbName]
	if !ok {
		st = &tenantStore{}
		m.dbs[dbName] = st
	}
	m.mu.Unlock()

	st.once.Do(func() {
		st.db, st.err = m.open(filepath.Join(m.dir, dbName))
		if st.err == nil {
			log.Info().Str("db_name", dbName).Msg("tenant store opened")
		}
	})
	if st.err != nil {
		m.mu.Lock()
		if m.dbs[dbName] == st {
			delete(m.dbs, dbName)
		}
		m.mu.Unlock()
		return nil, fmt.Errorf("tenant %s: %w", dbName, st.err)
	}
	return st.db, nil
}

func (m *TenantManager) openStore(path string) (*gorm.DB, error) {
	db, err := OpenSQLite(path, m.opts)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := InstallTenantSchema(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("provision: %w", err)
	}
	return db, nil
}

// Provision creates the tenant store (if missing) with the full schema.
func (m *TenantManager) Provision(dbName string) error {
	_, err := m.Get(dbName)
	return err
}

// Close closes every open tenant store.
func (m *TenantManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, st := range m.dbs {
		if st.db != nil {
			closeDB(st.db)
		}
		delete(m.dbs, name)
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
