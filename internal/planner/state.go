package planner

import (
	"fmt"
	"strings"
)

// View is the main panel shown to the user.
type View string

const (
	ViewSchedule View = "schedule"
	ViewCourses  View = "courses"
	ViewSettings View = "settings"
)

// Views lists the views in navigation order.
var Views = []View{ViewSchedule, ViewCourses, ViewSettings}

// ParseView accepts a view name, ignoring case.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// AppState is the UI state shared by front ends.
type AppState struct {
	View              View
	Search            string
	SidebarOpen       bool
	ShowNotifications bool
}

// DefaultState opens on the schedule with the course bench visible.
func DefaultState() AppState {
	return AppState{View: ViewSchedule, SidebarOpen: true}
}

// SetView switches the active view. Unknown views are ignored.
func (s *AppState) SetView(v View) {
	for _, known := range Views {
		if v == known {
			s.View = v
			return
		}
	}
}

// ToggleSidebar shows or hides the course bench.
func (s *AppState) ToggleSidebar() {
	s.SidebarOpen = !s.SidebarOpen
}

// ToggleNotifications shows or hides the full notification list.
func (s *AppState) ToggleNotifications() {
	s.ShowNotifications = !s.ShowNotifications
}
