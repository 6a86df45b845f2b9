package planner

import "testing"

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{in: "schedule", want: ViewSchedule},
		{in: " Courses ", want: ViewCourses},
		{in: "SETTINGS", want: ViewSettings},
		{in: "dashboard", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseView(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseView(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseView(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAppState(t *testing.T) {
	s := DefaultState()
	if s.View != ViewSchedule || !s.SidebarOpen || s.ShowNotifications {
		t.Fatalf("unexpected default state %+v", s)
	}

	s.SetView(ViewCourses)
	if s.View != ViewCourses {
		t.Errorf("View = %s, want courses", s.View)
	}
	s.SetView(View("bogus"))
	if s.View != ViewCourses {
		t.Error("unknown views must be ignored")
	}

	s.ToggleSidebar()
	s.ToggleNotifications()
	if s.SidebarOpen || !s.ShowNotifications {
		t.Errorf("toggles did not flip state: %+v", s)
	}
}
