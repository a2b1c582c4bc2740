// Package router mounts the storefront's HTTP handlers on a gin engine.
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultBasePath prefixes every storefront route
const DefaultBasePath = "/api"

// RouteRegistrar mounts its routes under rg
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under one base path
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

// WithBasePath replaces DefaultBasePath
func WithBasePath(path string) RouterOption {
	return func(r *Router) { r.basePath = "/" + strings.Trim(path, "/") }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, basePath: DefaultBasePath}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrars; nothing is mounted until Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

func (r *Router) Setup() {
	base := r.engine.Group(r.basePath)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(base)
	}
}

// Route is one method and path with its handler chain
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// DomainGroup declares the routes of one store area, such as cart or
// order, with optional shared middleware and nested groups.
type DomainGroup struct {
	name     string
	prefix   string
	use      []gin.HandlerFunc
	routes   []Route
	children []*DomainGroup
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use applies middleware to every route in the group and its children
func (g *DomainGroup) Use(mw ...gin.HandlerFunc) *DomainGroup {
	g.use = append(g.use, mw...)
	return g
}

func (g *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, Route{Method: method, Path: path, Handlers: handlers})
	return g
}

func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodGet, path, handlers...)
}

func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPost, path, handlers...)
}

func (g *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPut, path, handlers...)
}

// Group adds a nested group and returns it
func (g *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	mounted := rg.Group(g.prefix, g.use...)
	for _, rt := range g.routes {
		mounted.Handle(rt.Method, rt.Path, rt.Handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(mounted)
	}
}

func (g *DomainGroup) Name() string   { return g.name }
func (g *DomainGroup) Prefix() string { return g.prefix }

// Routes lists the group's own routes without its children
func (g *DomainGroup) Routes() []Route { return g.routes }
