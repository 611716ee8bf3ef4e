package handler

import (
	"net/http"

	"sevensystem/internal/dto"

	"github.com/gin-gonic/gin"
)

type VendasHandler struct{ tenant TenantFunc }

func NewVendasHandler(tenant TenantFunc) *VendasHandler {
	return &VendasHandler{tenant: tenant}
}

// Criar godoc
// @Summary Registra uma venda com seus itens
// @Description Itens cujo produto não tem estoque suficiente são gravados sem baixa e listados em itens_sem_baixa.
// @Tags vendas
// @Accept json
// @Produce json
// @Param body body dto.CriarVendaRequest true "Venda"
// @Success 201 {object} dto.VendaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/vendas [post]
func (h *VendasHandler) Criar(c *gin.Context) {
	var req dto.CriarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Vendas.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista vendas
// @Tags vendas
// @Produce json
// @Param status query string false "Pendente, Concluída ou Cancelada"
// @Param cliente_id query int false "Cliente"
// @Success 200 {object} dto.VendaListResponse
// @Router /v1/vendas [get]
func (h *VendasHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.tenant(c).Vendas.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.tenant(c).Vendas.ObterPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlterarStatus godoc
// @Summary Altera o status de uma venda aplicando o efeito no estoque
// @Tags vendas
// @Accept json
// @Produce json
// @Param id path int true "ID da venda"
// @Param body body dto.AlterarStatusRequest true "Novo status"
// @Success 200 {object} dto.VendaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/vendas/{id}/status [patch]
func (h *VendasHandler) AlterarStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AlterarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Vendas.AlterarStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) AdicionarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ItemVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tenant(c).Vendas.AdicionarItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
