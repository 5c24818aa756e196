package router

import "github.com/gin-gonic/gin"

// Registrar is implemented by every handler; the router only knows how to
// hand each one the shared /api group.
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Mount attaches every handler's routes under /api on the given engine.
func Mount(engine *gin.Engine, handlers ...Registrar) {
	api := engine.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
}
