// Package authstate tracks the dashboard's view of the current identity:
// who is signed in, whether the initial load has finished, and whether the
// sidebar should render. It mirrors the signed-in profile to local storage
// and notifies subscribers on every change.
package authstate

import (
	"context"
	"sync"

	"github.com/reetreev/dashboard/internal/domain"
	"github.com/reetreev/dashboard/internal/events"
	"github.com/reetreev/dashboard/internal/service"
)

const (
	fallbackDisplayName = "User"
	fallbackEmail       = "no-email@example.com"
)

type State struct {
	IsAuthenticated bool
	User            *domain.UserProfile
	IsLoading       bool
	ShowSidebar     bool
	Error           string
}

type Observer struct {
	users   *service.UserService
	emitter *events.Emitter
	mirror  Mirror

	mu    sync.Mutex
	state State
}

func NewObserver(users *service.UserService, emitter *events.Emitter, mirror Mirror) *Observer {
	return &Observer{
		users:   users,
		emitter: emitter,
		mirror:  mirror,
		state:   State{IsLoading: true},
	}
}

// OnSessionChange handles a provider session transition. A non-nil claims
// value means a session exists; nil means signed out. Bootstrap failure
// leaves the user unset and surfaces a generic error.
func (o *Observer) OnSessionChange(ctx context.Context, claims *service.IdentityClaims) {
	if claims == nil {
		o.setUser(nil, "")
		return
	}

	profile := domain.UserProfile{
		UID:         claims.UID,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = fallbackDisplayName
	}
	if profile.Email == "" {
		profile.Email = fallbackEmail
	}

	created, err := o.users.FindOrCreate(ctx, profile)
	if err != nil {
		o.setUser(nil, "Failed to initialize user profile")
		return
	}
	o.setUser(&created, "")
}

func (o *Observer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe forwards user-info changes; the returned function releases the
// subscription.
func (o *Observer) Subscribe(listener events.UserListener) func() {
	return o.emitter.Subscribe(listener)
}

func (o *Observer) setUser(user *domain.UserProfile, errMsg string) {
	o.mu.Lock()
	o.state = State{
		IsAuthenticated: user != nil,
		User:            user,
		IsLoading:       false,
		ShowSidebar:     user != nil,
		Error:           errMsg,
	}
	o.mu.Unlock()

	if user != nil {
		_ = o.mirror.Save(*user)
	} else {
		_ = o.mirror.Clear()
	}
	o.emitter.Emit(user)
}
