package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Module registers one feature's routes on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under /api. Middleware added with
// Use applies to every API route but not to routes on the bare engine.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Logger      *logrus.Logger
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine, logger *logrus.Logger) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api"), Logger: logger}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts every module and returns the number of API routes.
func (r *Registry) RegisterAll() int {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	n := 0
	for _, rt := range r.Engine.Routes() {
		if strings.HasPrefix(rt.Path, r.API.BasePath()) {
			n++
		}
	}
	if r.Logger != nil {
		r.Logger.WithFields(logrus.Fields{"modules": len(r.modules), "routes": n}).Info("api routes registered")
	}
	return n
}
