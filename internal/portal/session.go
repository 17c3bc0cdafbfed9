package portal

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
)

// LoginRoute is where every unauthenticated view is sent.
const LoginRoute = "/auth"

// AuthState is the resolver's view of the current user.
type AuthState int

const (
	StateLoading AuthState = iota
	StateAuthenticated
	StateRedirecting
)

func (s AuthState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// Resolver turns the stored session into a profile and keeps it current.
// One Resolver is owned by the application root and shared by every view.
//
// Each resolution runs under a generation number. Sign-out, Close and a new
// Start bump the generation, and a fetch that finishes under an older one is
// dropped, so a signed-out user never ends up authenticated.
type Resolver struct {
	gw       Gateway
	notifier Notifier
	log      zerolog.Logger

	mu         sync.Mutex
	state      AuthState
	session    *model.Session
	profile    *model.Profile
	generation uint64
	closed     bool
	cancel     context.CancelFunc
	listeners  []func(AuthState)
	streamDone chan struct{}
}

// NewResolver creates a Resolver in the loading state.
func NewResolver(gw Gateway, notifier Notifier, log zerolog.Logger) *Resolver {
	return &Resolver{
		gw:       gw,
		notifier: notifier,
		log:      log.With().Str("component", "session_resolver").Logger(),
		state:    StateLoading,
	}
}

// OnChange registers fn to run after every state transition. fn runs on
// the goroutine that caused the change and must not call back into r.
func (r *Resolver) OnChange(fn func(AuthState)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// State returns the current state and, when authenticated, the profile.
func (r *Resolver) State() (AuthState, *model.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.profile
}

// Session returns the resolved session, or nil.
func (r *Resolver) Session() *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Redirect returns the route a protected view must go to, or "" when the
// view may render.
func (r *Resolver) Redirect() string {
	if state, _ := r.State(); state == StateRedirecting {
		return LoginRoute
	}
	return ""
}

// Start resolves the session and profile and subscribes to auth events.
// It returns the state reached; a later sign-out can still move it to
// redirecting.
func (r *Resolver) Start(ctx context.Context) AuthState {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return StateRedirecting
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.generation++
	gen := r.generation
	streamCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.session, r.profile = nil, nil
	r.mu.Unlock()
	r.transition(gen, StateLoading, nil, nil)

	session, err := r.gw.GetSession(ctx)
	if err != nil || session == nil {
		if err != nil {
			r.log.Warn().Err(err).Msg("Session lookup failed")
		}
		r.transition(gen, StateRedirecting, nil, nil)
		return r.current()
	}

	// Subscribe before fetching the profile so a sign-out during the fetch
	// is seen.
	events, err := r.gw.Subscribe(streamCtx)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			r.transition(gen, StateRedirecting, nil, nil)
			return r.current()
		}
		r.log.Warn().Err(err).Msg("Auth stream unavailable")
	} else {
		done := make(chan struct{})
		r.mu.Lock()
		r.streamDone = done
		r.mu.Unlock()
		go r.watch(streamCtx, gen, session, events, done)
	}

	profile, err := r.gw.GetProfile(ctx, session.UserID.String())
	if err != nil || profile == nil {
		if r.isCurrent(gen) {
			if err != nil {
				r.notifier.Error(message("Could not load your profile", err))
			} else {
				r.notifier.Error("Could not load your profile")
			}
		}
		r.transition(gen, StateRedirecting, nil, nil)
		return r.current()
	}

	r.transition(gen, StateAuthenticated, session, profile)
	return r.current()
}

// watch follows the auth stream of one resolution.
func (r *Resolver) watch(ctx context.Context, gen uint64, session *model.Session, events <-chan model.AuthEvent, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				// The stream ended on its own: confirm the session survived.
				if ctx.Err() != nil {
					return
				}
				live, err := r.gw.GetSession(ctx)
				if err == nil && live == nil {
					r.signOut(gen)
				}
				return
			}
			if ev.Event == model.AuthEventSignedOut && ev.SessionID == session.ID {
				r.signOut(gen)
				return
			}
		}
	}
}

func (r *Resolver) signOut(gen uint64) {
	r.mu.Lock()
	if gen != r.generation || r.closed {
		r.mu.Unlock()
		return
	}
	// Any fetch still running for this resolution is now stale.
	r.generation++
	r.mu.Unlock()
	r.force(StateRedirecting)
}

// SignedOut moves the resolver to redirecting after a local sign-out.
func (r *Resolver) SignedOut() {
	r.mu.Lock()
	r.generation++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
	r.force(StateRedirecting)
}

// Close tears down the auth subscription. Pending fetches are discarded.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.closed = true
	r.generation++
	cancel := r.cancel
	done := r.streamDone
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (r *Resolver) isCurrent(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.generation && !r.closed
}

func (r *Resolver) current() AuthState {
	state, _ := r.State()
	return state
}

// transition applies a state change only for the live generation.
func (r *Resolver) transition(gen uint64, state AuthState, session *model.Session, profile *model.Profile) {
	r.mu.Lock()
	if gen != r.generation || r.closed {
		r.mu.Unlock()
		return
	}
	r.apply(state, session, profile)
}

// force applies a state change regardless of generation.
func (r *Resolver) force(state AuthState) {
	r.mu.Lock()
	r.apply(state, nil, nil)
}

// apply is called with r.mu held and releases it before notifying listeners.
func (r *Resolver) apply(state AuthState, session *model.Session, profile *model.Profile) {
	changed := r.state != state
	r.state = state
	r.session = session
	r.profile = profile
	listeners := append([]func(AuthState){}, r.listeners...)
	r.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(state)
		}
	}
}
