package handler

import (
	"net/http"

	"sevensystem/internal/dto"

	"github.com/gin-gonic/gin"
)

// CadastrosHandler serves employees, suppliers and clients.
type CadastrosHandler struct{ tenant TenantFunc }

func NewCadastrosHandler(tenant TenantFunc) *CadastrosHandler {
	return &CadastrosHandler{tenant: tenant}
}

func (h *CadastrosHandler) CriarFuncionario(c *gin.Context) {
	var req dto.CriarFuncionarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Cadastros.CriarFuncionario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CadastrosHandler) ListarFuncionarios(c *gin.Context) {
	resp, err := h.tenant(c).Cadastros.ListarFuncionarios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CadastrosHandler) CriarFornecedor(c *gin.Context) {
	var req dto.CriarFornecedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Cadastros.CriarFornecedor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CadastrosHandler) ListarFornecedores(c *gin.Context) {
	resp, err := h.tenant(c).Cadastros.ListarFornecedores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CadastrosHandler) CriarCliente(c *gin.Context) {
	var req dto.CriarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Cadastros.CriarCliente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CadastrosHandler) ListarClientes(c *gin.Context) {
	resp, err := h.tenant(c).Cadastros.ListarClientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
