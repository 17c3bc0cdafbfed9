package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
)

// errReadOnly is returned by the admission store for create and update,
// which only the public intake form performs.
var errReadOnly = errors.New("admissions are created through the intake form")

// AdmissionFilter narrows applications by applicant name or email and
// status. An empty Status means any.
type AdmissionFilter struct {
	Search string
	Status model.ApplicationStatus
}

func (f AdmissionFilter) Predicates() []Predicate[model.Admission] {
	preds := []Predicate[model.Admission]{
		func(a model.Admission) bool { return containsFold(f.Search, a.ApplicantName, a.Email) },
	}
	if f.Status != "" {
		preds = append(preds, func(a model.Admission) bool { return a.ApplicationStatus == f.Status })
	}
	return preds
}

type admissionStore struct{ gw Gateway }

func (s admissionStore) List(ctx context.Context) ([]model.Admission, error) {
	return s.gw.ListAdmissions(ctx)
}

func (admissionStore) Create(context.Context, struct{}) error { return errReadOnly }

func (admissionStore) Update(context.Context, uuid.UUID, struct{}) error { return errReadOnly }

func (s admissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.gw.DeleteAdmission(ctx, id)
}

// AdmissionController is the admission review panel. Applications are
// listed, reviewed and deleted here, never created or edited.
type AdmissionController struct {
	ctrl     *Controller[model.Admission, struct{}, struct{}]
	gw       Gateway
	notifier Notifier
}

// NewAdmissionController opens the admission panel for an admin profile.
func NewAdmissionController(gw Gateway, profile *model.Profile, n Notifier, c Confirmer) (*AdmissionController, error) {
	if err := requireAdmin(profile); err != nil {
		return nil, err
	}
	ctrl := NewController(Config[model.Admission, struct{}, struct{}]{
		Noun:  "Admission",
		Store: admissionStore{gw},
		ID:    func(a model.Admission) uuid.UUID { return a.ID },
		Build: func(struct{}) (struct{}, error) { return struct{}{}, errReadOnly },
		Edit:  func(model.Admission) struct{} { return struct{}{} },
		Blank: func() struct{} { return struct{}{} },
	}, n, c)
	return &AdmissionController{ctrl: ctrl, gw: gw, notifier: n}, nil
}

func (c *AdmissionController) Items() []model.Admission { return c.ctrl.Items() }
func (c *AdmissionController) Loading() bool            { return c.ctrl.Loading() }

func (c *AdmissionController) List(ctx context.Context) error { return c.ctrl.List(ctx) }

func (c *AdmissionController) Delete(ctx context.Context, id uuid.UUID) error {
	return c.ctrl.Delete(ctx, id)
}

func (c *AdmissionController) OnSessionLost(fn func()) { c.ctrl.OnSessionLost(fn) }

func (c *AdmissionController) SetFilter(f AdmissionFilter) { c.ctrl.SetFilter(f.Predicates()...) }

func (c *AdmissionController) Filtered() []model.Admission { return c.ctrl.Filtered() }

// Review approves or rejects a pending application, then reloads the list.
func (c *AdmissionController) Review(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) error {
	if status != model.ApplicationApproved && status != model.ApplicationRejected {
		err := &ValidationError{Fields: map[string]string{"status": "status must be approved or rejected"}}
		c.notifier.Error(err.Error())
		return err
	}

	if _, err := c.gw.ReviewAdmission(ctx, id, status); err != nil {
		return c.ctrl.fail("Failed to review application", err)
	}

	name := "Application"
	if a, ok := c.ctrl.find(id); ok {
		name = fmt.Sprintf("Application from %s", a.ApplicantName)
	}
	c.notifier.Success(fmt.Sprintf("%s %s", name, status))
	return c.List(ctx)
}
