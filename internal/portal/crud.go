package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/gateway"
)

// Store is the gateway surface one controller manages. R is the request
// payload built from a draft.
type Store[T, R any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, req R) error
	Update(ctx context.Context, id uuid.UUID, req R) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Predicate selects items in memory.
type Predicate[T any] func(T) bool

// Apply keeps the items matching every predicate. Predicates are ANDed, so
// their order does not matter.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, p := range preds {
			if !p(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// containsFold matches a search term against any of fields, ignoring case.
// A blank term matches everything.
func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Config describes one entity managed by a Controller.
type Config[T, D, R any] struct {
	// Noun names the entity in notifications, e.g. "Department".
	Noun  string
	Store Store[T, R]
	ID    func(T) uuid.UUID
	// Build validates a draft and converts it to a request. It runs before
	// any gateway call.
	Build func(D) (R, error)
	// Edit fills a draft from an existing row.
	Edit func(T) D
	// Blank returns the draft of a new entity.
	Blank func() D
}

// Controller is the state of one admin management panel. Calls are
// sequential: every mutation is followed by a List once it resolves.
type Controller[T, D, R any] struct {
	cfg       Config[T, D, R]
	notifier  Notifier
	confirmer Confirmer
	lost      func()

	items      []T
	loading    bool
	dialogOpen bool
	editing    *T
	draft      D
	filter     []Predicate[T]
}

// NewController creates a Controller with an empty item list.
func NewController[T, D, R any](cfg Config[T, D, R], notifier Notifier, confirmer Confirmer) *Controller[T, D, R] {
	return &Controller[T, D, R]{
		cfg:       cfg,
		notifier:  notifier,
		confirmer: confirmer,
		draft:     cfg.Blank(),
	}
}

func (c *Controller[T, D, R]) Items() []T       { return c.items }
func (c *Controller[T, D, R]) Loading() bool    { return c.loading }
func (c *Controller[T, D, R]) DialogOpen() bool { return c.dialogOpen }
func (c *Controller[T, D, R]) Editing() *T      { return c.editing }
func (c *Controller[T, D, R]) Draft() D         { return c.draft }

// OnSessionLost registers fn to run when a call fails because the session
// is gone. The loaded rows are dropped before fn runs.
func (c *Controller[T, D, R]) OnSessionLost(fn func()) { c.lost = fn }

// SetDraft replaces the form contents.
func (c *Controller[T, D, R]) SetDraft(d D) { c.draft = d }

// SetFilter replaces the active filter.
func (c *Controller[T, D, R]) SetFilter(preds ...Predicate[T]) { c.filter = preds }

// Filtered returns the loaded items matching the active filter.
func (c *Controller[T, D, R]) Filtered() []T { return Apply(c.items, c.filter...) }

// OpenCreate opens the dialog with a blank draft.
func (c *Controller[T, D, R]) OpenCreate() {
	c.editing = nil
	c.draft = c.cfg.Blank()
	c.dialogOpen = true
}

// OpenEdit opens the dialog on a copy of item.
func (c *Controller[T, D, R]) OpenEdit(item T) {
	c.editing = &item
	c.draft = c.cfg.Edit(item)
	c.dialogOpen = true
}

// CloseDialog discards the draft.
func (c *Controller[T, D, R]) CloseDialog() {
	c.dialogOpen = false
	c.editing = nil
	c.draft = c.cfg.Blank()
}

// List reloads every row, newest first. On failure the previous items stay.
func (c *Controller[T, D, R]) List(ctx context.Context) error {
	c.loading = true
	defer func() { c.loading = false }()

	items, err := c.cfg.Store.List(ctx)
	if err != nil {
		return c.fail(fmt.Sprintf("Failed to load %ss", strings.ToLower(c.cfg.Noun)), err)
	}
	c.items = items
	return nil
}

// Submit creates or updates depending on how the dialog was opened.
func (c *Controller[T, D, R]) Submit(ctx context.Context) error {
	if c.editing != nil {
		return c.Update(ctx)
	}
	return c.Create(ctx)
}

// Create inserts the draft. On failure the dialog and draft are kept.
func (c *Controller[T, D, R]) Create(ctx context.Context) error {
	return c.mutate(ctx, "create", func(req R) error {
		return c.cfg.Store.Create(ctx, req)
	})
}

// Update saves the draft over the row being edited.
func (c *Controller[T, D, R]) Update(ctx context.Context) error {
	if c.editing == nil {
		return errors.New("no row is being edited")
	}
	id := c.cfg.ID(*c.editing)
	return c.mutate(ctx, "update", func(req R) error {
		return c.cfg.Store.Update(ctx, id, req)
	})
}

func (c *Controller[T, D, R]) mutate(ctx context.Context, verb string, call func(R) error) error {
	req, err := c.cfg.Build(c.draft)
	if err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	if err := call(req); err != nil {
		return c.fail(fmt.Sprintf("Failed to %s %s", verb, strings.ToLower(c.cfg.Noun)), err)
	}

	c.notifier.Success(fmt.Sprintf("%s %sd successfully", c.cfg.Noun, verb))
	c.CloseDialog()
	return c.List(ctx)
}

// Delete removes a row after the user confirms. Declining is not an error
// and makes no gateway call.
func (c *Controller[T, D, R]) Delete(ctx context.Context, id uuid.UUID) error {
	if !c.confirmer.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(c.cfg.Noun))) {
		return nil
	}

	if err := c.cfg.Store.Delete(ctx, id); err != nil {
		return c.fail(fmt.Sprintf("Failed to delete %s", strings.ToLower(c.cfg.Noun)), err)
	}

	c.notifier.Success(fmt.Sprintf("%s deleted successfully", c.cfg.Noun))
	return c.List(ctx)
}

// fail reports a failed gateway call and returns err. A 401 means the
// session ended: nothing protected may stay on screen.
func (c *Controller[T, D, R]) fail(action string, err error) error {
	c.notifier.Error(message(action, err))
	if gateway.IsUnauthorized(err) {
		c.items = nil
		c.CloseDialog()
		if c.lost != nil {
			c.lost()
		}
	}
	return err
}

// find returns the loaded item with id.
func (c *Controller[T, D, R]) find(id uuid.UUID) (T, bool) {
	for _, item := range c.items {
		if c.cfg.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
