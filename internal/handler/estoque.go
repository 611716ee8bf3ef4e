package handler

import (
	"net/http"

	"sevensystem/internal/dto"

	"github.com/gin-gonic/gin"
)

type EstoqueHandler struct{ tenant TenantFunc }

func NewEstoqueHandler(tenant TenantFunc) *EstoqueHandler {
	return &EstoqueHandler{tenant: tenant}
}

// ListarMovimentacoes godoc
// @Summary Lista o livro de movimentações, mais recentes primeiro
// @Tags estoque
// @Produce json
// @Param produto_id query int false "Produto"
// @Param tipo query string false "ENTRADA, SAIDA, AJUSTE, PERDA ou DEVOLUCAO"
// @Param desde query string false "Data inicial (AAAA-MM-DD)"
// @Param ate query string false "Data final inclusiva (AAAA-MM-DD)"
// @Success 200 {object} dto.MovimentacaoListResponse
// @Router /v1/estoque/movimentacoes [get]
func (h *EstoqueHandler) ListarMovimentacoes(c *gin.Context) {
	var filter dto.MovimentacaoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.tenant(c).Estoque.ListarMovimentacoes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimentacao godoc
// @Summary Lança uma movimentação manual e atualiza o estoque do produto
// @Tags estoque
// @Accept json
// @Produce json
// @Param body body dto.MovimentacaoRequest true "Movimentação"
// @Success 201 {object} dto.MovimentacaoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/estoque/movimentacoes [post]
func (h *EstoqueHandler) RegistrarMovimentacao(c *gin.Context) {
	var req dto.MovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Estoque.RegistrarMovimentacao(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AtualizarMovimentacao overwrites a ledger row. Product stock is not touched.
func (h *EstoqueHandler) AtualizarMovimentacao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimentacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	atualizado, err := h.tenant(c).Estoque.AtualizarMovimentacao(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AtualizacaoResponse{Atualizado: atualizado})
}

func (h *EstoqueHandler) Produtos(c *gin.Context) {
	resp, err := h.tenant(c).Estoque.ListarProdutos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Funcionarios(c *gin.Context) {
	resp, err := h.tenant(c).Estoque.ListarFuncionarios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Alertas(c *gin.Context) {
	resp, err := h.tenant(c).Estoque.Alertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Conciliacao(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.tenant(c).Estoque.Conciliar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
