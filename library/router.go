package library

import "sync"

// Route names a screen.
type Route string

const (
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteDashboard Route = "dashboard"
	RoutePositions Route = "positions"
)

// Navigator receives navigation requests from screens.
type Navigator interface {
	Navigate(to Route)
}

// Router tracks the current screen. OnNavigate, when set, is called after
// every change of route.
type Router struct {
	mu         sync.Mutex
	current    Route
	OnNavigate func(from, to Route)
}

// NewRouter starts at the given route.
func NewRouter(start Route) *Router {
	return &Router{current: start}
}

func (r *Router) Navigate(to Route) {
	r.mu.Lock()
	from := r.current
	r.current = to
	hook := r.OnNavigate
	r.mu.Unlock()

	if hook != nil && from != to {
		hook(from, to)
	}
}

// Current returns the active route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
