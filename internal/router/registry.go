package router

import "github.com/gin-gonic/gin"

// Registry collects modules and the middleware shared by every /api route.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware to the /api group. Middleware runs in the order added
// and must be added before RegisterAll.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// PublicPaths gathers the public routes declared by the added modules.
func (r *Registry) PublicPaths() []string {
	var out []string
	for _, m := range r.modules {
		if pm, ok := m.(PublicModule); ok {
			out = append(out, pm.PublicPaths(r.API.BasePath())...)
		}
	}
	return out
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
