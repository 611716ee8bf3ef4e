package handler

import (
	"net/http"

	"sevensystem/internal/dto"
	"sevensystem/internal/middleware"
	"sevensystem/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Registrar godoc
// @Summary Cadastro de empresa
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistrarRequest true "Dados da conta"
// @Success 201 {object} map[string]bool
// @Failure 409 {object} apierror.APIError
// @Router /v1/auth/registrar [post]
func (h *AuthHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ok, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"criado": ok})
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Conta ─────────────────────────────────────────────────────────────────────

func (h *AuthHandler) Conta(c *gin.Context) {
	resp, err := h.svc.DadosUsuario(c.Request.Context(), middleware.GetClaims(c).Usuario)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) AtualizarEmpresa(c *gin.Context) {
	var req dto.AtualizarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AtualizarEmpresa(c.Request.Context(), middleware.GetClaims(c).Usuario, req.Empresa); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) AlterarSenha(c *gin.Context) {
	var req dto.AlterarSenhaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AlterarSenha(c.Request.Context(), middleware.GetClaims(c).Usuario, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
