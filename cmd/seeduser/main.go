// cmd/seeduser/main.go: cria uma conta de demonstração e sua base de dados.
// Uso: go run ./cmd/seeduser -usuario demo -senha 'Demo#2026'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/config"
	"sevensystem/internal/dto"
	"sevensystem/internal/infra"
	"sevensystem/internal/repository"
	"sevensystem/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	req := dto.RegistrarRequest{}
	flag.StringVar(&req.Usuario, "usuario", "demo", "nome de usuário")
	flag.StringVar(&req.Senha, "senha", "Demo#2026", "senha")
	flag.StringVar(&req.Nome, "nome", "Conta Demonstração", "nome do responsável")
	flag.StringVar(&req.Email, "email", "demo@example.com", "e-mail")
	flag.StringVar(&req.Empresa, "empresa", "Empresa Demo", "nome da empresa")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	opts := infra.SQLiteOptions{BusyTimeoutMS: cfg.SQLiteBusyTimeout}
	registry, err := infra.NewRegistry(cfg.RegistryPath(), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open registry")
	}
	tenants := infra.NewTenantManager(cfg.DataDir, opts)
	defer tenants.Close()

	ctx := context.Background()
	repo := repository.NewUsuarioRepository(registry)
	svc := service.NewAuthService(repo, tenants, cfg)
	_, err = svc.Registrar(ctx, req)
	switch {
	case errors.Is(err, apierror.ErrConstraintViolation):
		u, ferr := repo.FindByUsuario(ctx, req.Usuario)
		if ferr != nil {
			log.Fatal().Err(err).Msg("registrar usuário")
		}
		// already registered: make sure the store exists
		if perr := tenants.Provision(u.DBName); perr != nil {
			log.Fatal().Err(perr).Msg("provision tenant")
		}
		fmt.Printf("Usuário '%s' já existe; base %s verificada\n", u.Usuario, u.DBName)
	case err != nil:
		log.Fatal().Err(err).Msg("registrar usuário")
	default:
		fmt.Printf("Usuário '%s' criado com a base %s\n", req.Usuario, service.DBNameFor(req.Usuario))
	}
}
