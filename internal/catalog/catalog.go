// Package catalog holds the fixed course catalog students pick classes from.
package catalog

import (
	"errors"
	"strings"
)

// ErrUnknownCourse is returned when a course reference matches nothing.
var ErrUnknownCourse = errors.New("unknown course")

// StudySessionID identifies the self-study block used by auto-placement.
const StudySessionID = "c6"

// Course is immutable reference data describing a class.
type Course struct {
	ID          string
	Code        string
	Name        string
	Color       string // Styling token, e.g. "indigo"
	BorderColor string
	TextColor   string
	Professor   string
	Credits     int
	Duration    float64 // Default duration in hours
	Description string
}

var courses = []Course{
	{ID: "c1", Code: "CS-101", Name: "Intro to Comp Sci", Color: "indigo", BorderColor: "indigo", TextColor: "indigo", Professor: "Dr. Smith", Credits: 3, Duration: 1.5, Description: "Fundamentals of programming and algorithms."},
	{ID: "c2", Code: "MATH-201", Name: "Calculus II", Color: "sky", BorderColor: "sky", TextColor: "sky", Professor: "Dr. Johnson", Credits: 4, Duration: 1, Description: "Integrals, series, and differential equations."},
	{ID: "c3", Code: "PHYS-101", Name: "Physics I", Color: "emerald", BorderColor: "emerald", TextColor: "emerald", Professor: "Dr. Brown", Credits: 4, Duration: 2, Description: "Mechanics, heat, and sound."},
	{ID: "c4", Code: "ENG-102", Name: "Creative Writing", Color: "rose", BorderColor: "rose", TextColor: "rose", Professor: "Prof. Davis", Credits: 2, Duration: 1.5, Description: "Workshop-based writing course."},
	{ID: "c5", Code: "ART-105", Name: "Digital Design", Color: "amber", BorderColor: "amber", TextColor: "amber", Professor: "Ms. Lee", Credits: 3, Duration: 2, Description: "Introduction to digital tools."},
	{ID: "c6", Code: "STUDY", Name: "Study Session", Color: "slate", BorderColor: "slate", TextColor: "slate", Professor: "Self", Credits: 0, Duration: 1, Description: "Personal focus time."},
}

// All returns every course in catalog order.
func All() []Course {
	out := make([]Course, len(courses))
	copy(out, courses)
	return out
}

// Lookup returns the course with the given ID.
func Lookup(id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// LookupCode returns the course with the given code, ignoring case.
func LookupCode(code string) (Course, bool) {
	for _, c := range courses {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Course{}, false
}

// Resolve accepts either a course ID ("c1") or a course code ("CS-101").
func Resolve(ref string) (Course, bool) {
	if c, ok := Lookup(ref); ok {
		return c, true
	}
	return LookupCode(ref)
}

// Search filters courses whose name or code contains query, ignoring case.
// An empty query matches every course.
func Search(query string) []Course {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return All()
	}
	var out []Course
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			out = append(out, c)
		}
	}
	return out
}
