package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sevensystem/internal/config"
	"sevensystem/internal/dto"
	"sevensystem/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Env: "test", JWTSecret: "segredo", JWTExpirationHours: 1, TxTimeoutSeconds: 5}

	registry, err := infra.NewRegistry(dir+"/users.db", infra.SQLiteOptions{BusyTimeoutMS: 1000})
	require.NoError(t, err)
	tenants := infra.NewTenantManager(dir, infra.SQLiteOptions{BusyTimeoutMS: 1000})
	t.Cleanup(func() {
		tenants.Close()
		if sqlDB, err := registry.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(cfg, registry, tenants, nil, nil)
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, usuario string) string {
	t.Helper()
	w := call(t, h, http.MethodPost, "/v1/auth/registrar", "", gin.H{
		"nome": "Dono " + usuario, "email": usuario + "@example.com", "empresa": "Empresa " + usuario,
		"usuario": usuario, "senha": "senha123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodPost, "/v1/auth/login", "", gin.H{"usuario": usuario, "senha": "senha123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	h := newServer(t)
	w := call(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db":"connected","redis":"disabled"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTenantRoutesRequireToken(t *testing.T) {
	h := newServer(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, "/v1/produtos", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, "/v1/conta", "", nil).Code)
}

func TestTenantsAreIsolated(t *testing.T) {
	h := newServer(t)
	ana := login(t, h, "ana")
	bruno := login(t, h, "bruno")

	w := call(t, h, http.MethodPost, "/v1/fornecedores", ana, gin.H{
		"nome_fantasia": "Fornecedor", "razao_social": "Fornecedor LTDA", "cnpj": "12.345.678/0001-90", "telefone": "1100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(t, h, http.MethodPost, "/v1/produtos", ana, gin.H{
		"nome": "Caneta", "preco": 2, "custo_unitario": 1, "estoque_atual": 10, "fornecedor_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var produtosAna, produtosBruno []dto.ProdutoResponse
	w = call(t, h, http.MethodGet, "/v1/produtos", ana, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &produtosAna))
	w = call(t, h, http.MethodGet, "/v1/produtos", bruno, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &produtosBruno))
	assert.Len(t, produtosAna, 1)
	assert.Empty(t, produtosBruno)

	// the same supplier CNPJ is free in another tenant
	w = call(t, h, http.MethodPost, "/v1/fornecedores", bruno, gin.H{
		"nome_fantasia": "Fornecedor", "razao_social": "Fornecedor LTDA", "cnpj": "12.345.678/0001-90", "telefone": "1100",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var movs dto.MovimentacaoListResponse
	w = call(t, h, http.MethodGet, "/v1/estoque/movimentacoes", ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movs))
	assert.EqualValues(t, 1, movs.Total)
	assert.Equal(t, "PRODUTO_NOVO", *movs.Data[0].ReferenciaTipo)
}

func TestConta(t *testing.T) {
	h := newServer(t)
	token := login(t, h, "carla")

	w := call(t, h, http.MethodGet, "/v1/conta", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nome":"Dono carla","email":"carla@example.com","empresa":"Empresa carla"}`, w.Body.String())
}
