package repository

import (
	"context"
	"fmt"

	"sevensystem/internal/dto"
	"sevensystem/internal/model"

	"gorm.io/gorm"
)

// CadastroRepository covers the master data referenced by products, sales and
// ledger entries: employees, suppliers and clients.
type CadastroRepository interface {
	CreateFuncionario(ctx context.Context, f *model.Funcionario) error
	FindFuncionario(ctx context.Context, id int64) (*model.Funcionario, error)
	ListFuncionarios(ctx context.Context) ([]model.Funcionario, error)
	ListFuncionariosIDNome(ctx context.Context) ([]dto.IDNome, error)

	CreateFornecedor(ctx context.Context, f *model.Fornecedor) error
	ListFornecedores(ctx context.Context) ([]model.Fornecedor, error)

	CreateCliente(ctx context.Context, c *model.Cliente) error
	ListClientes(ctx context.Context) ([]model.Cliente, error)
}

type cadastroRepo struct{ db *gorm.DB }

func NewCadastroRepository(db *gorm.DB) CadastroRepository { return &cadastroRepo{db: db} }

func (r *cadastroRepo) CreateFuncionario(ctx context.Context, f *model.Funcionario) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *cadastroRepo) FindFuncionario(ctx context.Context, id int64) (*model.Funcionario, error) {
	var f model.Funcionario
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, fmt.Errorf("funcionário %d: %w", id, translate(err))
	}
	return &f, nil
}

func (r *cadastroRepo) ListFuncionarios(ctx context.Context) ([]model.Funcionario, error) {
	var out []model.Funcionario
	err := r.db.WithContext(ctx).Order("nome ASC, id ASC").Find(&out).Error
	return out, translate(err)
}

func (r *cadastroRepo) ListFuncionariosIDNome(ctx context.Context) ([]dto.IDNome, error) {
	out := []dto.IDNome{}
	err := r.db.WithContext(ctx).Model(&model.Funcionario{}).
		Select("id, nome").Order("nome ASC, id ASC").Scan(&out).Error
	return out, translate(err)
}

func (r *cadastroRepo) CreateFornecedor(ctx context.Context, f *model.Fornecedor) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *cadastroRepo) ListFornecedores(ctx context.Context) ([]model.Fornecedor, error) {
	var out []model.Fornecedor
	err := r.db.WithContext(ctx).Order("nome_fantasia ASC").Find(&out).Error
	return out, translate(err)
}

func (r *cadastroRepo) CreateCliente(ctx context.Context, c *model.Cliente) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *cadastroRepo) ListClientes(ctx context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	err := r.db.WithContext(ctx).Order("nome ASC, id ASC").Find(&out).Error
	return out, translate(err)
}
