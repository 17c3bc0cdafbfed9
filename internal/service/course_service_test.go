package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCourseService_Create_NormalisesDepartment(t *testing.T) {
	deptID := uuid.New()

	tests := []struct {
		name string
		dept *string
		want *uuid.UUID
	}{
		{name: "missing", dept: nil, want: nil},
		{name: "empty string", dept: strPtr(""), want: nil},
		{name: "blank", dept: strPtr("   "), want: nil},
		{name: "uuid", dept: strPtr(deptID.String()), want: &deptID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCourseRepo{}
			svc := NewCourseService(repo)

			c, err := svc.Create(context.Background(), model.CourseRequest{
				Name: " Data Structures ", Code: "cs201", Credits: 4, Semester: 3, DepartmentID: tt.dept,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.DepartmentID)
			assert.Equal(t, "Data Structures", repo.created.Name)
			assert.Equal(t, "CS201", repo.created.Code)
		})
	}
}

func TestCourseService_Create_RejectsMalformedDepartment(t *testing.T) {
	repo := &fakeCourseRepo{}
	svc := NewCourseService(repo)

	_, err := svc.Create(context.Background(), model.CourseRequest{
		Name: "Algebra", Code: "MA101", Credits: 3, Semester: 1, DepartmentID: strPtr("maths"),
	})
	assert.ErrorIs(t, err, ErrInvalidDepartment)
	assert.Nil(t, repo.created)
}

func TestCourseService_Update_WrapsRepositoryErrors(t *testing.T) {
	repo := &fakeCourseRepo{err: repository.ErrDuplicate}
	svc := NewCourseService(repo)

	_, err := svc.Update(context.Background(), uuid.New(), model.CourseRequest{Name: "Algebra", Code: "MA101", Credits: 3, Semester: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestDepartmentService_BlankOptionalFieldsBecomeNull(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	svc := NewDepartmentService(repo)

	_, err := svc.Create(context.Background(), model.DepartmentRequest{
		Name: "Science", Code: "sci", Description: strPtr("  "), HeadOfDepartment: strPtr("Dr. Rao"),
	})
	require.NoError(t, err)
	assert.Nil(t, repo.created.Description)
	assert.Equal(t, "Dr. Rao", *repo.created.HeadOfDepartment)
	assert.Equal(t, "SCI", repo.created.Code)
}

func TestDepartmentService_Delete_DependencyExists(t *testing.T) {
	svc := NewDepartmentService(&fakeDepartmentRepo{delErr: repository.ErrDependencyExists})

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrDependencyExists)
}
