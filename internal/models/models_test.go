package models

import "testing"

func TestIsSuperadmin(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		want      bool
	}{
		{name: "nil principal", principal: nil, want: false},
		{name: "admin", principal: &Principal{AccountType: AccountAdmin}, want: false},
		{name: "superadmin", principal: &Principal{AccountType: AccountSuperadmin}, want: true},
		{name: "empty account type", principal: &Principal{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.IsSuperadmin(); got != tt.want {
				t.Errorf("IsSuperadmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCachedPrincipalRoundTrip(t *testing.T) {
	cached := CachedPrincipal{
		ServerURL:   "https://portal.example.com",
		PrincipalID: 7,
		Username:    "alice",
		AccountType: string(AccountSuperadmin),
		TenantID:    "acme",
	}

	p := cached.Principal()
	if p.ID != 7 || p.Username != "alice" || p.TenantID != "acme" {
		t.Errorf("unexpected principal: %+v", p)
	}
	if !p.IsSuperadmin() {
		t.Error("account type lost in conversion")
	}
}
