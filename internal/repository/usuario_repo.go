package repository

import (
	"context"
	"fmt"

	"sevensystem/internal/apierror"
	"sevensystem/internal/model"

	"gorm.io/gorm"
)

// UsuarioRepository reads and writes the registry of company accounts.
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsuario(ctx context.Context, usuario string) (*model.Usuario, error)
	UpdateEmpresa(ctx context.Context, usuario, empresa string) error
	UpdateSenha(ctx context.Context, usuario, hash, salt, algoritmo string) error
	Delete(ctx context.Context, id int64) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *usuarioRepo) FindByUsuario(ctx context.Context, usuario string) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).Where("usuario = ?", usuario).First(&u).Error; err != nil {
		return nil, fmt.Errorf("usuário %q: %w", usuario, translate(err))
	}
	return &u, nil
}

func (r *usuarioRepo) UpdateEmpresa(ctx context.Context, usuario, empresa string) error {
	return r.update(ctx, usuario, map[string]interface{}{"empresa": empresa})
}

func (r *usuarioRepo) UpdateSenha(ctx context.Context, usuario, hash, salt, algoritmo string) error {
	return r.update(ctx, usuario, map[string]interface{}{
		"senha_hash": hash,
		"salt":       salt,
		"algoritmo":  algoritmo,
	})
}

func (r *usuarioRepo) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Usuario{}, id).Error)
}

func (r *usuarioRepo) update(ctx context.Context, usuario string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("usuario = ?", usuario).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("usuário %q: %w", usuario, apierror.ErrNotFound)
	}
	return nil
}
