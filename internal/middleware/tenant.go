package middleware

import (
	"net/http"
	"time"

	"sevensystem/internal/apierror"
	"sevensystem/internal/service"
	"sevensystem/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const TenantKey = "tenant"

// TenantStores resolves a tenant store by file name.
type TenantStores interface {
	Get(dbName string) (*gorm.DB, error)
}

// TenantResolver opens the store named by the token's db_name and binds the
// tenant services to the request. Must run after JWTAuth.
func TenantResolver(stores TenantStores, dispatcher *worker.Dispatcher, txTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)

		db, err := stores.Get(claims.DBName)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).
				Str("usuario", claims.Usuario).
				Str("db_name", claims.DBName).
				Msg("tenant store unavailable")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New("Base de dados da empresa indisponível"))
			return
		}

		l := zerolog.Ctx(c.Request.Context()).With().
			Str("usuario", claims.Usuario).
			Str("db_name", claims.DBName).
			Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Set(TenantKey, service.NewTenant(claims.DBName, db, dispatcher, txTimeout))
		c.Next()
	}
}

// GetTenant returns the tenant services bound by TenantResolver.
func GetTenant(c *gin.Context) *service.Tenant {
	t, _ := c.MustGet(TenantKey).(*service.Tenant)
	return t
}
