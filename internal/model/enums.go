package model

import "strings"

// NoticeType classifies a notice.
type NoticeType string

const (
	NoticeTypeGeneral     NoticeType = "general"
	NoticeTypeAcademic    NoticeType = "academic"
	NoticeTypeExamination NoticeType = "examination"
	NoticeTypeAdmission   NoticeType = "admission"
	NoticeTypeEvent       NoticeType = "event"
	NoticeTypeUrgent      NoticeType = "urgent"
)

// NoticeTypes lists every notice type in display order.
var NoticeTypes = []NoticeType{
	NoticeTypeGeneral,
	NoticeTypeAcademic,
	NoticeTypeExamination,
	NoticeTypeAdmission,
	NoticeTypeEvent,
	NoticeTypeUrgent,
}

// NoticePriority is 1 (low) to 3 (high).
type NoticePriority int

const (
	PriorityLow    NoticePriority = 1
	PriorityMedium NoticePriority = 2
	PriorityHigh   NoticePriority = 3
)

// NoticePriorities lists every priority from lowest to highest.
var NoticePriorities = []NoticePriority{PriorityLow, PriorityMedium, PriorityHigh}

// Label returns the display name of the priority.
func (p NoticePriority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Audience is the group a notice targets.
type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceStudents Audience = "students"
	AudienceFaculty  Audience = "faculty"
	AudienceStaff    Audience = "staff"
)

// Audiences lists every target audience in display order.
var Audiences = []Audience{AudienceAll, AudienceStudents, AudienceFaculty, AudienceStaff}

// CourseType is the programme level an applicant applies for.
type CourseType string

const (
	CourseTypeUndergraduate CourseType = "undergraduate"
	CourseTypePostgraduate  CourseType = "postgraduate"
	CourseTypeProfessional  CourseType = "professional"
)

// CourseTypes lists every course type in display order.
var CourseTypes = []CourseType{CourseTypeUndergraduate, CourseTypePostgraduate, CourseTypeProfessional}

// ApplicationStatus is the review state of an admission.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every application status in display order.
var ApplicationStatuses = []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRejected}

// EnrollmentStatus is the state of a student's enrollment in a course.
type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// EnumTag binds a validator tag name to the allowed values of one enum.
type EnumTag struct {
	Tag    string
	Values []string
}

// EnumTags is the single registry the request validator and the console forms read
// allowed values from.
var EnumTags = []EnumTag{
	{Tag: "role", Values: stringsOf(Roles)},
	{Tag: "notice_type", Values: stringsOf(NoticeTypes)},
	{Tag: "audience", Values: stringsOf(Audiences)},
	{Tag: "course_type", Values: stringsOf(CourseTypes)},
	{Tag: "application_status", Values: stringsOf(ApplicationStatuses)},
}

// Contains reports whether v is one of the allowed values, ignoring case.
func (e EnumTag) Contains(v string) bool {
	for _, allowed := range e.Values {
		if strings.EqualFold(allowed, v) {
			return true
		}
	}
	return false
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Valid reports whether t is a known notice type.
func (t NoticeType) Valid() bool { return contains(NoticeTypes, t) }

// Valid reports whether a is a known audience.
func (a Audience) Valid() bool { return contains(Audiences, a) }

// Valid reports whether c is a known course type.
func (c CourseType) Valid() bool { return contains(CourseTypes, c) }

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool { return contains(ApplicationStatuses, s) }

// Valid reports whether p is within 1..3.
func (p NoticePriority) Valid() bool { return p >= PriorityLow && p <= PriorityHigh }

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
