// Package api serves a read-only debug API over the session snapshots
// published on the bus.
package api

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/ItsNotGoodName/x-railview/internal/build"
	"github.com/ItsNotGoodName/x-railview/internal/bus"
	"github.com/ItsNotGoodName/x-railview/internal/core"
	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"github.com/ItsNotGoodName/x-railview/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	addr string

	mu      sync.Mutex
	windows []rail.WindowSnapshot
	ended   error
}

func NewServer(host string, port int) *Server {
	s := &Server{addr: core.Address(host, port)}

	bus.Subscribe("api.Server", func(ctx context.Context, event bus.SessionUpdated) error {
		s.mu.Lock()
		s.windows = event.Windows
		s.mu.Unlock()
		return nil
	})
	bus.Subscribe("api.Server", func(ctx context.Context, event bus.SessionEnded) error {
		s.mu.Lock()
		s.ended = event.Err
		s.mu.Unlock()
		return nil
	})

	return s
}

func (s *Server) String() string {
	return "api.Server"
}

func (s *Server) Serve(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(chiext.Logger())

	h := humachi.New(r, huma.DefaultConfig("x-railview", build.Current.Version))
	s.register(h)

	server := http.Server{
		Addr:    s.addr,
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errC := make(chan error, 1)
	go func() { errC <- server.ListenAndServe() }()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		server.Close()
		<-errC
		return ctx.Err()
	}
}

type WindowsOutput struct {
	Body struct {
		Windows []rail.WindowSnapshot `json:"windows"`
		Ended   string                `json:"ended,omitempty"`
	}
}

type BuildOutput struct {
	Body build.Build
}

func (s *Server) register(h huma.API) {
	huma.Register(h, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows",
		Summary:     "List tracked windows",
	}, func(ctx context.Context, _ *struct{}) (*WindowsOutput, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		res := &WindowsOutput{}
		res.Body.Windows = s.windows
		if s.ended != nil {
			res.Body.Ended = s.ended.Error()
		}
		return res, nil
	})

	huma.Register(h, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Get build information",
	}, func(ctx context.Context, _ *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: build.Current}, nil
	})
}
