package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes on a RouterGroup
type Module interface {
	Register(rg *gin.RouterGroup)
}

// PublicModule is a Module with routes the authentication gate must skip.
// Paths are absolute and matched exactly.
type PublicModule interface {
	Module
	PublicPaths(prefix string) []string
}
