package model

// Algoritmos de hash de senha gravados no registro.
const (
	AlgPBKDF2SHA256 = "pbkdf2-sha256"
	AlgPBKDF2SHA512 = "pbkdf2-sha512"
)

// Usuario is a registered company account in the main registry database.
// DBName points to the tenant's own SQLite store.
// SenhaHash and Salt are hex encoded.
type Usuario struct {
	ID        int64  `gorm:"primaryKey"`
	Nome      string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	Empresa   string `gorm:"not null"`
	Usuario   string `gorm:"column:usuario;not null;uniqueIndex"`
	SenhaHash string `gorm:"not null"`
	Salt      string `gorm:"not null"`
	Algoritmo string `gorm:"not null;default:'pbkdf2-sha256'"`
	DBName    string `gorm:"column:db_name;not null;uniqueIndex"`
}

func (Usuario) TableName() string { return "usuarios" }
