package router

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		dest       string
		wantRoute  string
		wantParams map[string]string
		wantOK     bool
	}{
		{
			name:      "login",
			dest:      "/login",
			wantRoute: "login",
			wantOK:    true,
		},
		{
			name:      "login with redirect query",
			dest:      "/login?redirect=%2Fdirectories",
			wantRoute: "login",
			wantOK:    true,
		},
		{
			name:      "directories",
			dest:      "/directories",
			wantRoute: "directories",
			wantOK:    true,
		},
		{
			name:       "users captures directory id",
			dest:       "/directories/5/users",
			wantRoute:  "users",
			wantParams: map[string]string{"dirId": "5"},
			wantOK:     true,
		},
		{
			name:       "users with query string",
			dest:       "/directories/5/users?q=smith",
			wantRoute:  "users",
			wantParams: map[string]string{"dirId": "5"},
			wantOK:     true,
		},
		{
			name:      "superadmin",
			dest:      "/superadmin",
			wantRoute: "superadmin",
			wantOK:    true,
		},
		{
			name:      "superadmin tenants",
			dest:      "/superadmin/tenants",
			wantRoute: "tenants",
			wantOK:    true,
		},
		{
			name:   "unknown destination",
			dest:   "/nonsense",
			wantOK: false,
		},
		{
			name:   "too many segments",
			dest:   "/directories/5/users/extra",
			wantOK: false,
		},
		{
			name:   "empty path",
			dest:   "/",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, params, ok := Match(tt.dest)

			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.dest, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}

			if route.Name != tt.wantRoute {
				t.Errorf("route = %q, want %q", route.Name, tt.wantRoute)
			}

			for key, want := range tt.wantParams {
				if got := params[key]; got != want {
					t.Errorf("param %q = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestRouteTableFlags(t *testing.T) {
	var public, superadmin int
	for _, route := range Routes() {
		if route.Public {
			public++
		}
		if route.RequiresSuperadmin {
			superadmin++
		}
		if route.Public && route.RequiresSuperadmin {
			t.Errorf("route %q is both public and superadmin-only", route.Name)
		}
	}

	if public != 1 {
		t.Errorf("public routes = %d, want 1 (only login)", public)
	}
	if superadmin != 2 {
		t.Errorf("superadmin routes = %d, want 2", superadmin)
	}
}
