package api

import "github.com/okian/rvcalc/pkg/logger"

const (
	defaultProjectionRPS   = 20
	defaultProjectionBurst = 40
)

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPreciseBaseline toggles recovery of exact fractions from the rounded
// high and low submitted with a baseline profile.
func WithPreciseBaseline(on bool) ServerOption {
	return func(s *Server) {
		s.preciseBaseline = on
	}
}

// WithProjectionLimit sets the token bucket guarding POST /projection.
func WithProjectionLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.projectionRPS = rps
		}
		if burst > 0 {
			s.projectionBurst = burst
		}
	}
}
