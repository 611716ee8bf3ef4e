package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarRequest struct {
	Nome    string `json:"nome"    validate:"required,min=2,max=120"`
	Email   string `json:"email"   validate:"required,email"`
	Empresa string `json:"empresa" validate:"required,min=1,max=120"`
	Usuario string `json:"usuario" validate:"required,min=3,max=64"`
	Senha   string `json:"senha"   validate:"required,min=1"`
}

type LoginRequest struct {
	Usuario string `json:"usuario" validate:"required"`
	Senha   string `json:"senha"   validate:"required"`
}

type AtualizarEmpresaRequest struct {
	Empresa string `json:"empresa" validate:"required,min=1,max=120"`
}

type AlterarSenhaRequest struct {
	SenhaAtual  string `json:"senha_atual"  validate:"required"`
	NovaSenha   string `json:"nova_senha"   validate:"required"`
	Confirmacao string `json:"confirmacao"  validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	Usuario     string `json:"usuario"`
	Empresa     string `json:"empresa"`
}

type DadosUsuarioResponse struct {
	Nome    string `json:"nome"`
	Email   string `json:"email"`
	Empresa string `json:"empresa"`
}
