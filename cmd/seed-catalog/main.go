package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/database"
	"github.com/stcolombus/campus-portal/internal/logger"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/service"
)

type seedCourse struct {
	name, code     string
	credits, sem   int
	departmentCode string
}

var departments = []model.DepartmentRequest{
	{Name: "Computer Science", Code: "CSE", HeadOfDepartment: strPtr("Dr. Meera Nair")},
	{Name: "Physics", Code: "PHY", HeadOfDepartment: strPtr("Dr. Arjun Rao")},
	{Name: "Mathematics", Code: "MTH"},
	{Name: "Commerce", Code: "COM"},
	{Name: "English Literature", Code: "ENG"},
}

var courses = []seedCourse{
	{"Programming Fundamentals", "CSE101", 4, 1, "CSE"},
	{"Data Structures", "CSE201", 4, 3, "CSE"},
	{"Database Systems", "CSE301", 3, 5, "CSE"},
	{"Mechanics", "PHY101", 4, 1, "PHY"},
	{"Electromagnetism", "PHY202", 4, 3, "PHY"},
	{"Calculus I", "MTH101", 4, 1, "MTH"},
	{"Linear Algebra", "MTH201", 3, 3, "MTH"},
	{"Financial Accounting", "COM101", 3, 1, "COM"},
	{"Poetry and Drama", "ENG101", 3, 1, "ENG"},
	{"Environmental Studies", "GEN101", 2, 2, ""},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	departmentService := service.NewDepartmentService(repository.NewDepartmentRepository(pool))
	courseService := service.NewCourseService(repository.NewCourseRepository(pool))

	fmt.Printf("=== Seeding %d Departments ===\n", len(departments))

	created := 0
	for _, req := range departments {
		if _, err := departmentService.Create(ctx, req); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				fmt.Printf("Department %s already exists, skipping\n", req.Code)
				continue
			}
			log.Fatal().Err(err).Str("code", req.Code).Msg("Failed to create department")
		}
		created++
	}

	existing, err := departmentService.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list departments")
	}
	idByCode := make(map[string]string, len(existing))
	for _, d := range existing {
		idByCode[d.Code] = d.ID.String()
	}

	fmt.Printf("=== Seeding %d Courses ===\n", len(courses))

	createdCourses := 0
	for _, c := range courses {
		req := model.CourseRequest{
			Name:     c.name,
			Code:     c.code,
			Credits:  c.credits,
			Semester: c.sem,
		}
		if id, ok := idByCode[c.departmentCode]; ok {
			req.DepartmentID = &id
		}

		if _, err := courseService.Create(ctx, req); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				fmt.Printf("Course %s already exists, skipping\n", c.code)
				continue
			}
			fmt.Printf("Error creating course %s: %v\n", c.code, err)
			continue
		}
		createdCourses++
	}

	fmt.Printf("\nSeed completed! Added %d/%d departments and %d/%d courses.\n",
		created, len(departments), createdCourses, len(courses))
}

func strPtr(s string) *string { return &s }
