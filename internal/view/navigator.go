// Package view holds the in-memory state the dashboard renders from, plus
// the small UI contracts (navigation, confirmation) the core drives.
package view

import (
	"sync"

	"github.com/hamed0406/upmonitor/internal/domain"
)

// Route names a view the dashboard can navigate to.
type Route string

const (
	RouteLanding Route = "/"
	RouteSignIn  Route = "/signin"
	RouteSignUp  Route = "/signup"
	RouteList    Route = "/dashboard"
)

// RouteWebsite is the detail view for one website.
func RouteWebsite(id domain.WebsiteID) Route {
	return Route("/website/" + string(id))
}

// Navigator is the routing layer. The core only ever asks it to move.
type Navigator interface {
	Navigate(r Route)
}

// History is a Navigator that records where it was sent. The CLI reads
// Current after each command; tests inspect Routes.
type History struct {
	mu     sync.Mutex
	routes []Route
	onNav  func(Route)
}

func NewHistory(onNav func(Route)) *History {
	return &History{onNav: onNav}
}

func (h *History) Navigate(r Route) {
	h.mu.Lock()
	h.routes = append(h.routes, r)
	fn := h.onNav
	h.mu.Unlock()
	if fn != nil {
		fn(r)
	}
}

func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return ""
	}
	return h.routes[len(h.routes)-1]
}

func (h *History) Routes() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Route(nil), h.routes...)
}
