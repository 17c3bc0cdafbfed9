package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/portal"
)

// panel binds one admin controller to its console rendering.
type panel[T, D, R any] struct {
	ctrl *portal.Controller[T, D, R]
	id   func(T) uuid.UUID
	row  func(T) string
	form func(c *console, d D) D
}

// run handles "<noun> add|edit N|delete N" and falls back to listing with
// the remaining args as filter.
func (p panel[T, D, R]) run(ctx context.Context, c *console, args []string, filter func([]string) []portal.Predicate[T]) {
	if len(args) > 0 {
		switch args[0] {
		case "add":
			p.ctrl.OpenCreate()
			p.ctrl.SetDraft(p.form(c, p.ctrl.Draft()))
			if p.ctrl.Submit(ctx) == nil {
				p.print(c)
			}
			return
		case "edit":
			item, ok := p.pick(c, args)
			if !ok {
				return
			}
			p.ctrl.OpenEdit(item)
			p.ctrl.SetDraft(p.form(c, p.ctrl.Draft()))
			if p.ctrl.Submit(ctx) == nil {
				p.print(c)
			}
			return
		case "delete":
			item, ok := p.pick(c, args)
			if !ok {
				return
			}
			if p.ctrl.Delete(ctx, p.id(item)) == nil {
				p.print(c)
			}
			return
		}
	}

	p.ctrl.SetFilter(filter(args)...)
	if err := p.ctrl.List(ctx); err != nil && (gateway.IsUnauthorized(err) || len(p.ctrl.Items()) == 0) {
		return
	}
	p.print(c)
}

// pick resolves the 1-based row number in args[1] against the filtered list.
func (p panel[T, D, R]) pick(c *console, args []string) (T, bool) {
	var zero T
	rows := p.ctrl.Filtered()
	if len(args) < 2 {
		c.Error("row number required")
		return zero, false
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 || n > len(rows) {
		c.Error(fmt.Sprintf("row must be between 1 and %d; list first", len(rows)))
		return zero, false
	}
	return rows[n-1], true
}

func (p panel[T, D, R]) print(c *console) {
	rows := p.ctrl.Filtered()
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "  (none)")
		return
	}
	for i, row := range rows {
		fmt.Fprintf(c.out, "%3d. %s\n", i+1, p.row(row))
	}
}

// splitArgs separates key=value options from free search words.
func splitArgs(args []string) (search string, opts map[string]string) {
	opts = map[string]string{}
	var words []string
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok {
			opts[strings.ToLower(k)] = v
			continue
		}
		words = append(words, a)
	}
	return strings.Join(words, " "), opts
}

// ─── Departments ────────────────────────────────────────────────────

func (c *console) departmentCommand(ctx context.Context, args []string) {
	panel[model.Department, portal.DepartmentDraft, model.DepartmentRequest]{
		ctrl: c.departments,
		id:   func(d model.Department) uuid.UUID { return d.ID },
		row: func(d model.Department) string {
			return fmt.Sprintf("%-8s %s", d.Code, d.Name)
		},
		form: func(c *console, d portal.DepartmentDraft) portal.DepartmentDraft {
			d.Name = c.askDefault("Name", d.Name)
			d.Code = c.askDefault("Code", d.Code)
			d.Description = c.askDefault("Description", d.Description)
			d.HeadOfDepartment = c.askDefault("Head of department", d.HeadOfDepartment)
			return d
		},
	}.run(ctx, c, args, func(args []string) []portal.Predicate[model.Department] {
		search, _ := splitArgs(args)
		return portal.DepartmentFilter{Search: search}.Predicates()
	})
}

// ─── Courses ────────────────────────────────────────────────────────

func (c *console) courseCommand(ctx context.Context, args []string) {
	panel[model.CourseWithDepartment, portal.CourseDraft, model.CourseRequest]{
		ctrl: c.courses,
		id:   func(cr model.CourseWithDepartment) uuid.UUID { return cr.ID },
		row: func(cr model.CourseWithDepartment) string {
			dept := "-"
			if cr.Department != nil {
				dept = cr.Department.Code
			}
			return fmt.Sprintf("%-8s %-32s sem %d  %d cr  %s", cr.Code, cr.Name, cr.Semester, cr.Credits, dept)
		},
		form: func(c *console, d portal.CourseDraft) portal.CourseDraft {
			d.Name = c.askDefault("Name", d.Name)
			d.Code = c.askDefault("Code", d.Code)
			d.Description = c.askDefault("Description", d.Description)
			d.Credits = c.askDefault("Credits (1-6)", d.Credits)
			d.Semester = c.askDefault("Semester (1-8)", d.Semester)
			d.DepartmentID = c.askDefault("Department ID (blank for none)", d.DepartmentID)
			return d
		},
	}.run(ctx, c, args, func(args []string) []portal.Predicate[model.CourseWithDepartment] {
		search, opts := splitArgs(args)
		sem, _ := strconv.Atoi(opts["sem"])
		return portal.CourseFilter{Search: search, Semester: sem}.Predicates()
	})
}

// ─── Notices ────────────────────────────────────────────────────────

func (c *console) noticeCommand(ctx context.Context, args []string) {
	p := panel[model.Notice, portal.NoticeDraft, model.NoticeRequest]{
		ctrl: c.notices.Controller,
		id:   func(n model.Notice) uuid.UUID { return n.ID },
		row: func(n model.Notice) string {
			state := "draft"
			if n.IsPublished {
				state = "published"
			}
			return fmt.Sprintf("[%-9s] %-11s %-6s %s", state, n.Type, n.Priority.Label(), n.Title)
		},
		form: func(c *console, d portal.NoticeDraft) portal.NoticeDraft {
			d.Title = c.askDefault("Title", d.Title)
			d.Content = c.askDefault("Content", d.Content)
			d.Type = model.NoticeType(c.askDefault("Type (general|academic|examination|admission|event|urgent)", string(d.Type)))
			d.Priority = c.askDefault("Priority (1-3)", d.Priority)
			d.TargetAudience = model.Audience(c.askDefault("Audience (all|students|faculty|staff)", string(d.TargetAudience)))
			d.PublishDate = c.askDefault("Publish date (YYYY-MM-DD)", d.PublishDate)
			d.ExpireDate = c.askDefault("Expire date (YYYY-MM-DD)", d.ExpireDate)
			d.IsPublished = c.Confirm("Publish now?")
			return d
		},
	}

	if len(args) > 0 && args[0] == "publish" {
		item, ok := p.pick(c, args)
		if !ok {
			return
		}
		if c.notices.TogglePublish(ctx, item) == nil {
			p.print(c)
		}
		return
	}

	p.run(ctx, c, args, func(args []string) []portal.Predicate[model.Notice] {
		search, opts := splitArgs(args)
		return portal.NoticeFilter{
			Search: search,
			Type:   model.NoticeType(opts["type"]),
			Status: portal.NoticeStatus(opts["status"]),
		}.Predicates()
	})
}

// ─── Admissions ─────────────────────────────────────────────────────

func (c *console) admissionCommand(ctx context.Context, args []string) {
	pickRow := func() (model.Admission, bool) {
		rows := c.admissions.Filtered()
		n := 0
		if len(args) > 1 {
			n, _ = strconv.Atoi(args[1])
		}
		if n < 1 || n > len(rows) {
			c.Error(fmt.Sprintf("row must be between 1 and %d; list first", len(rows)))
			return model.Admission{}, false
		}
		return rows[n-1], true
	}

	if len(args) > 0 {
		switch args[0] {
		case "approve", "reject":
			a, ok := pickRow()
			if !ok {
				return
			}
			status := model.ApplicationApproved
			if args[0] == "reject" {
				status = model.ApplicationRejected
			}
			if c.admissions.Review(ctx, a.ID, status) == nil {
				c.printAdmissions()
			}
			return
		case "delete":
			a, ok := pickRow()
			if !ok {
				return
			}
			if c.admissions.Delete(ctx, a.ID) == nil {
				c.printAdmissions()
			}
			return
		}
	}

	search, opts := splitArgs(args)
	c.admissions.SetFilter(portal.AdmissionFilter{Search: search, Status: model.ApplicationStatus(opts["status"])})
	if err := c.admissions.List(ctx); err != nil && (gateway.IsUnauthorized(err) || len(c.admissions.Items()) == 0) {
		return
	}
	c.printAdmissions()
}

func (c *console) printAdmissions() {
	rows := c.admissions.Filtered()
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "  (none)")
		return
	}
	for i, a := range rows {
		marks := "-"
		if a.MarksPercentage != nil {
			marks = strconv.FormatFloat(*a.MarksPercentage, 'f', 1, 64) + "%"
		}
		fmt.Fprintf(c.out, "%3d. [%-8s] %-24s %-28s %-13s %6s  %d doc(s)\n",
			i+1, a.ApplicationStatus, a.ApplicantName, a.Email, a.CourseType, marks, len(a.Documents))
	}
}

// ─── Intake form ────────────────────────────────────────────────────

func (c *console) apply(ctx context.Context) {
	form := portal.NewAdmissionForm(c.gw, c)

	if depts, err := c.gw.ListPublicDepartments(ctx); err == nil && len(depts) > 0 {
		fmt.Fprintln(c.out, "Departments:")
		for _, d := range depts {
			fmt.Fprintf(c.out, "  %s  %s (%s)\n", d.ID, d.Name, d.Code)
		}
	}

	d := form.Draft()
	for {
		d.ApplicantName = c.askDefault("Full name", d.ApplicantName)
		d.Email = c.askDefault("Email", d.Email)
		d.Phone = c.askDefault("Phone", d.Phone)
		d.DateOfBirth = c.askDefault("Date of birth (YYYY-MM-DD)", d.DateOfBirth)
		d.Address = c.askDefault("Address", d.Address)
		d.CourseType = c.askDefault("Course type (undergraduate|postgraduate|professional)", d.CourseType)
		d.PreviousQualification = c.askDefault("Previous qualification", d.PreviousQualification)
		d.MarksPercentage = c.askDefault("Marks percentage (0-100)", d.MarksPercentage)
		d.DepartmentID = c.askDefault("Department ID (optional)", d.DepartmentID)
		if docs := c.askDefault("Documents (comma separated paths)", strings.Join(d.Documents, ",")); docs != "" {
			d.Documents = splitPaths(docs)
		}
		form.SetDraft(d)

		a, err := form.Submit(ctx)
		if err == nil {
			fmt.Fprintf(c.out, "Reference: %s (status %s)\n", a.ID, a.ApplicationStatus)
			return
		}
		// The form keeps what was typed; offer it back for correction.
		if !c.Confirm("Edit and retry?") {
			return
		}
		d = form.Draft()
	}
}

func splitPaths(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
