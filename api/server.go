// Package api exposes sequence planning and rendering over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"clipmix/history"
	"clipmix/jobs"
	"clipmix/pipeline"
	"clipmix/sequence"
)

// RenderDispatcher hands a render request off for asynchronous execution,
// either in-process or via the message bus.
type RenderDispatcher interface {
	Dispatch(ctx context.Context, req pipeline.RenderRequest) (*jobs.Job, error)
}

// Server holds the dependencies shared by the HTTP handlers.
type Server struct {
	catalog    []sequence.Record
	ring       *history.Ring
	manager    *jobs.Manager
	dispatcher RenderDispatcher
}

// NewServer wires the HTTP layer. dispatcher may be nil when rendering is
// disabled (sequence-only deployments).
func NewServer(catalog []sequence.Record, manager *jobs.Manager, dispatcher RenderDispatcher) *Server {
	return &Server{
		catalog:    catalog,
		ring:       history.NewRing(history.DefaultCapacity),
		manager:    manager,
		dispatcher: dispatcher,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	s.RegisterSequenceRoutes(r)
	s.RegisterRenderRoutes(r)
	return r
}
