package infra

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"sevensystem/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteOptions tunes the connection string shared by the registry and the
// tenant stores.
type SQLiteOptions struct {
	BusyTimeoutMS int
	// Memory opens a shared-cache in-memory database named after the path (tests).
	Memory bool
}

// dsn builds a go-sqlite3 connection string. Foreign keys are enforced and
// write transactions start with BEGIN IMMEDIATE, so the read of the current
// stock and its update cannot interleave with another writer.
func dsn(path string, opts SQLiteOptions) string {
	q := url.Values{}
	q.Set("_foreign_keys", "1")
	q.Set("_txlock", "immediate")
	if opts.BusyTimeoutMS > 0 {
		q.Set("_busy_timeout", strconv.Itoa(opts.BusyTimeoutMS))
	}
	if opts.Memory {
		q.Set("mode", "memory")
		q.Set("cache", "shared")
	}
	return "file:" + path + "?" + q.Encode()
}

// OpenSQLite opens one SQLite file through GORM. A single open connection per
// database gives the single-writer-per-tenant model.
func OpenSQLite(path string, opts SQLiteOptions) (*gorm.DB, error) {
	if !opts.Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(dsn(path, opts)), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return db, nil
}

// NewRegistry opens the users registry and installs its schema.
func NewRegistry(path string, opts SQLiteOptions) (*gorm.DB, error) {
	db, err := OpenSQLite(path, opts)
	if err != nil {
		return nil, err
	}
	if err := InstallRegistrySchema(db); err != nil {
		return nil, fmt.Errorf("registry schema: %w", err)
	}
	return db, nil
}

// InstallRegistrySchema creates the usuarios table of the registry. Registries
// written before the algoritmo column existed get it added with the SHA-256 default.
func InstallRegistrySchema(db *gorm.DB) error {
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		empresa TEXT NOT NULL,
		usuario TEXT NOT NULL UNIQUE,
		senha_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		algoritmo TEXT NOT NULL DEFAULT 'pbkdf2-sha256',
		db_name TEXT UNIQUE NOT NULL
	)`).Error; err != nil {
		return err
	}
	if !db.Migrator().HasColumn(&model.Usuario{}, "algoritmo") {
		return db.Exec(`ALTER TABLE usuarios ADD COLUMN algoritmo TEXT NOT NULL DEFAULT 'pbkdf2-sha256'`).Error
	}
	return nil
}

// tenantSchema is the business schema of one tenant store. Every statement is
// idempotent so provisioning can run against an existing file.
var tenantSchema = []struct{ descr, sql string }{
	{"funcionarios", `CREATE TABLE IF NOT EXISTS funcionarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		cargo TEXT NOT NULL,
		telefone TEXT,
		email TEXT,
		data_admissao DATE NOT NULL,
		observacoes TEXT
	)`},
	{"usuarios", `CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		funcionario_id INTEGER NOT NULL,
		username TEXT NOT NULL UNIQUE,
		senha_hash TEXT NOT NULL,
		nivel_acesso TEXT CHECK(nivel_acesso IN ('admin', 'gerente', 'vendedor')) NOT NULL,
		FOREIGN KEY (funcionario_id) REFERENCES funcionarios(id) ON DELETE CASCADE
	)`},
	{"fornecedores", `CREATE TABLE IF NOT EXISTS fornecedores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome_fantasia TEXT NOT NULL UNIQUE,
		razao_social TEXT NOT NULL,
		cnpj TEXT NOT NULL UNIQUE,
		telefone TEXT NOT NULL,
		email TEXT,
		observacoes TEXT
	)`},
	{"produtos", `CREATE TABLE IF NOT EXISTS produtos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		descricao TEXT,
		preco REAL NOT NULL CHECK(preco >= 0),
		preco_promocional REAL CHECK(preco_promocional >= 0 AND preco_promocional <= preco),
		custo_unitario REAL NOT NULL CHECK(custo_unitario >= 0),
		estoque_atual INTEGER NOT NULL DEFAULT 0 CHECK(estoque_atual >= 0),
		estoque_minimo INTEGER NOT NULL DEFAULT 0 CHECK(estoque_minimo >= 0),
		estoque_maximo INTEGER DEFAULT NULL CHECK(estoque_maximo IS NULL OR estoque_maximo >= estoque_minimo),
		fornecedor_id INTEGER NOT NULL,
		categoria TEXT,
		data_cadastro DATETIME,
		data_atualizacao DATETIME,
		FOREIGN KEY (fornecedor_id) REFERENCES fornecedores(id) ON DELETE CASCADE
	)`},
	{"clientes", `CREATE TABLE IF NOT EXISTS clientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		cpf_cnpj TEXT NOT NULL UNIQUE,
		telefone TEXT,
		email TEXT,
		cep TEXT,
		cidade TEXT,
		estado TEXT,
		bairro TEXT,
		endereco TEXT,
		numero TEXT,
		complemento TEXT,
		data_cadastro DATETIME
	)`},
	{"vendas", `CREATE TABLE IF NOT EXISTS vendas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cliente_id INTEGER NOT NULL,
		funcionario_id INTEGER NOT NULL,
		desconto REAL CHECK(desconto >= 0) DEFAULT 0,
		status TEXT CHECK(status IN ('Concluída', 'Pendente', 'Cancelada')) DEFAULT 'Pendente',
		total REAL NOT NULL CHECK(total >= 0),
		data_venda DATETIME,
		FOREIGN KEY (cliente_id) REFERENCES clientes(id) ON DELETE CASCADE,
		FOREIGN KEY (funcionario_id) REFERENCES funcionarios(id) ON DELETE CASCADE
	)`},
	{"itens_venda", `CREATE TABLE IF NOT EXISTS itens_venda (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		venda_id INTEGER NOT NULL,
		produto_id INTEGER NOT NULL,
		quantidade INTEGER NOT NULL CHECK(quantidade > 0),
		desconto REAL CHECK(desconto >= 0) DEFAULT 0,
		preco_unitario REAL NOT NULL CHECK(preco_unitario >= 0),
		subtotal REAL NOT NULL CHECK(subtotal >= 0),
		FOREIGN KEY (venda_id) REFERENCES vendas(id) ON DELETE CASCADE,
		FOREIGN KEY (produto_id) REFERENCES produtos(id) ON DELETE CASCADE
	)`},
	{"movimentacao_estoque", `CREATE TABLE IF NOT EXISTS movimentacao_estoque (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		produto_id INTEGER NOT NULL,
		tipo_movimentacao TEXT NOT NULL CHECK(tipo_movimentacao IN ('ENTRADA', 'SAIDA', 'AJUSTE', 'PERDA', 'DEVOLUCAO')),
		quantidade INTEGER NOT NULL,
		estoque_anterior INTEGER NOT NULL,
		estoque_atual INTEGER NOT NULL,
		motivo TEXT,
		referencia_id INTEGER,
		referencia_tipo TEXT,
		funcionario_id INTEGER,
		data_movimentacao DATETIME,
		observacoes TEXT,
		FOREIGN KEY (produto_id) REFERENCES produtos(id) ON DELETE CASCADE,
		FOREIGN KEY (funcionario_id) REFERENCES funcionarios(id) ON DELETE SET NULL
	)`},
	{"idx_movimentacao_produto", `CREATE INDEX IF NOT EXISTS idx_movimentacao_produto ON movimentacao_estoque (produto_id)`},
	{"idx_movimentacao_data", `CREATE INDEX IF NOT EXISTS idx_movimentacao_data ON movimentacao_estoque (data_movimentacao)`},
	{"idx_itens_venda_venda", `CREATE INDEX IF NOT EXISTS idx_itens_venda_venda ON itens_venda (venda_id)`},
}

// InstallTenantSchema creates every business table of a tenant store inside a
// single transaction; a failure leaves no partial schema behind.
func InstallTenantSchema(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range tenantSchema {
			if err := tx.Exec(s.sql).Error; err != nil {
				return fmt.Errorf("schema %q: %w", s.descr, err)
			}
		}
		return nil
	})
}
