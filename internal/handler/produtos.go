package handler

import (
	"net/http"

	"sevensystem/internal/dto"

	"github.com/gin-gonic/gin"
)

type ProdutosHandler struct{ tenant TenantFunc }

func NewProdutosHandler(tenant TenantFunc) *ProdutosHandler {
	return &ProdutosHandler{tenant: tenant}
}

// Criar godoc
// @Summary Cadastra um produto e lança o estoque inicial
// @Tags produtos
// @Accept json
// @Produce json
// @Param body body dto.CriarProdutoRequest true "Produto"
// @Success 201 {object} dto.ProdutoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/produtos [post]
func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Produtos.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProdutosHandler) Listar(c *gin.Context) {
	resp, err := h.tenant(c).Produtos.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.tenant(c).Produtos.ObterPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Produtos.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar godoc
// @Summary Ajusta o estoque de um produto para um valor absoluto
// @Tags produtos
// @Accept json
// @Produce json
// @Param id path int true "ID do produto"
// @Param body body dto.AjusteEstoqueRequest true "Novo estoque"
// @Success 201 {object} dto.MovimentacaoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/produtos/{id}/ajuste [post]
func (h *ProdutosHandler) Ajustar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjusteEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Estoque.AjustarEstoque(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
