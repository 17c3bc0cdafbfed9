package portal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
)

// DepartmentDraft is the department form as typed.
type DepartmentDraft struct {
	Name             string
	Code             string
	Description      string
	HeadOfDepartment string
}

func (d DepartmentDraft) build() (model.DepartmentRequest, error) {
	errs := fieldErrors{}
	errs.required("name", d.Name)
	errs.required("code", d.Code)
	if err := errs.err(); err != nil {
		return model.DepartmentRequest{}, err
	}
	return model.DepartmentRequest{
		Name:             strings.TrimSpace(d.Name),
		Code:             strings.TrimSpace(d.Code),
		Description:      optionalString(d.Description),
		HeadOfDepartment: optionalString(d.HeadOfDepartment),
	}, nil
}

// DepartmentFilter narrows the department list by name or code.
type DepartmentFilter struct {
	Search string
}

func (f DepartmentFilter) Predicates() []Predicate[model.Department] {
	return []Predicate[model.Department]{
		func(d model.Department) bool { return containsFold(f.Search, d.Name, d.Code) },
	}
}

type departmentStore struct{ gw Gateway }

func (s departmentStore) List(ctx context.Context) ([]model.Department, error) {
	return s.gw.ListDepartments(ctx)
}

func (s departmentStore) Create(ctx context.Context, req model.DepartmentRequest) error {
	_, err := s.gw.CreateDepartment(ctx, req)
	return err
}

func (s departmentStore) Update(ctx context.Context, id uuid.UUID, req model.DepartmentRequest) error {
	_, err := s.gw.UpdateDepartment(ctx, id, req)
	return err
}

func (s departmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.gw.DeleteDepartment(ctx, id)
}

type DepartmentController = Controller[model.Department, DepartmentDraft, model.DepartmentRequest]

// NewDepartmentController opens the department panel for an admin profile.
func NewDepartmentController(gw Gateway, profile *model.Profile, n Notifier, c Confirmer) (*DepartmentController, error) {
	if err := requireAdmin(profile); err != nil {
		return nil, err
	}
	return NewController(Config[model.Department, DepartmentDraft, model.DepartmentRequest]{
		Noun:  "Department",
		Store: departmentStore{gw},
		ID:    func(d model.Department) uuid.UUID { return d.ID },
		Build: DepartmentDraft.build,
		Edit: func(d model.Department) DepartmentDraft {
			return DepartmentDraft{
				Name:             d.Name,
				Code:             d.Code,
				Description:      deref(d.Description),
				HeadOfDepartment: deref(d.HeadOfDepartment),
			}
		},
		Blank: func() DepartmentDraft { return DepartmentDraft{} },
	}, n, c), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
