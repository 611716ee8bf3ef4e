package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/config"
	"sevensystem/internal/dto"
	"sevensystem/internal/model"
	"sevensystem/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// TenantProvisioner creates the isolated store of a tenant. Provisioning an
// existing store is a no-op.
type TenantProvisioner interface {
	Provision(dbName string) error
}

type AuthService interface {
	// Registrar creates the account and its tenant store. A duplicate user or
	// email yields false with ErrConstraintViolation.
	Registrar(ctx context.Context, req dto.RegistrarRequest) (bool, error)
	// Verificar returns the tenant store of usuario when senha matches.
	Verificar(ctx context.Context, usuario, senha string) (string, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	DadosUsuario(ctx context.Context, usuario string) (*dto.DadosUsuarioResponse, error)
	AtualizarEmpresa(ctx context.Context, usuario, empresa string) error
	AlterarSenha(ctx context.Context, usuario string, req dto.AlterarSenhaRequest) error
}

type authService struct {
	repo        repository.UsuarioRepository
	provisioner TenantProvisioner
	cfg         *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, provisioner TenantProvisioner, cfg *config.Config) AuthService {
	return &authService{repo: repo, provisioner: provisioner, cfg: cfg}
}

var usuarioPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// DBNameFor is the tenant store file of a user.
func DBNameFor(usuario string) string {
	return "user_" + strings.ToLower(usuario) + ".db"
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistrarRequest) (bool, error) {
	if !usuarioPattern.MatchString(req.Usuario) {
		return false, fmt.Errorf("%w: usuário deve conter apenas letras, números, '.', '_' ou '-'", apierror.ErrConstraintViolation)
	}

	hashHex, saltHex, err := NovaSenhaRegistro(req.Senha)
	if err != nil {
		return false, err
	}
	u := &model.Usuario{
		Nome:      req.Nome,
		Email:     req.Email,
		Empresa:   req.Empresa,
		Usuario:   req.Usuario,
		SenhaHash: hashHex,
		Salt:      saltHex,
		Algoritmo: model.AlgPBKDF2SHA256,
		DBName:    DBNameFor(req.Usuario),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return false, boundary(ctx, "registrar usuário", err)
	}
	if err := s.provisioner.Provision(u.DBName); err != nil {
		// An account without a store must not be able to log in, and the
		// name must stay free for a retry.
		if derr := s.repo.Delete(ctx, u.ID); derr != nil {
			logger(ctx).Error().Err(derr).Str("usuario", u.Usuario).Msg("falha ao desfazer registro")
		}
		return false, boundary(ctx, "provisionar tenant", err)
	}

	logger(ctx).Info().Str("usuario", u.Usuario).Str("db_name", u.DBName).Msg("usuário registrado")
	return true, nil
}

func (s *authService) autenticar(ctx context.Context, usuario, senha string) (*model.Usuario, error) {
	u, err := s.repo.FindByUsuario(ctx, usuario)
	if err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, apierror.ErrInvalidCredentials
		}
		return nil, boundary(ctx, "verificar usuário", err)
	}
	if !ConferirSenha(u.Algoritmo, senha, u.SenhaHash, u.Salt) {
		return nil, apierror.ErrInvalidCredentials
	}
	return u, nil
}

func (s *authService) Verificar(ctx context.Context, usuario, senha string) (string, error) {
	u, err := s.autenticar(ctx, usuario, senha)
	if err != nil {
		return "", err
	}
	return u.DBName, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.autenticar(ctx, req.Usuario, req.Senha)
	if err != nil {
		return nil, err
	}
	token, err := s.generateToken(u, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Usuario:     u.Usuario,
		Empresa:     u.Empresa,
	}, nil
}

func (s *authService) DadosUsuario(ctx context.Context, usuario string) (*dto.DadosUsuarioResponse, error) {
	u, err := s.repo.FindByUsuario(ctx, usuario)
	if err != nil {
		return nil, boundary(ctx, "dados do usuário", err)
	}
	return &dto.DadosUsuarioResponse{Nome: u.Nome, Email: u.Email, Empresa: u.Empresa}, nil
}

func (s *authService) AtualizarEmpresa(ctx context.Context, usuario, empresa string) error {
	empresa = strings.TrimSpace(empresa)
	if empresa == "" {
		return fmt.Errorf("%w: nome da empresa vazio", apierror.ErrConstraintViolation)
	}
	return boundary(ctx, "atualizar empresa", s.repo.UpdateEmpresa(ctx, usuario, empresa))
}

// AlterarSenha re-hashes with SHA-512 and records the algorithm, so the
// account keeps verifying after the change.
func (s *authService) AlterarSenha(ctx context.Context, usuario string, req dto.AlterarSenhaRequest) error {
	if _, err := s.autenticar(ctx, usuario, req.SenhaAtual); err != nil {
		return err
	}
	if req.NovaSenha != req.Confirmacao {
		return apierror.ErrPasswordMismatch
	}
	if !SenhaForte(req.NovaSenha) {
		return apierror.ErrWeakPassword
	}
	hashHex, saltHex, err := NovaSenhaAlteracao(req.NovaSenha)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateSenha(ctx, usuario, hashHex, saltHex, model.AlgPBKDF2SHA512); err != nil {
		return boundary(ctx, "alterar senha", err)
	}
	logger(ctx).Info().Str("usuario", usuario).Msg("senha alterada")
	return nil
}

func (s *authService) generateToken(u *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"usuario": u.Usuario,
		"db_name": u.DBName,
		"exp":     now.Add(duration).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
