package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for r, name := range roleNames {
		got, err := ParseRole(name)
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseRole("owner"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRoleSet_NoImpliedMembership(t *testing.T) {
	if ManagerOrAbove.Has(RoleReceptionist) {
		t.Fatalf("receptionist is not in ManagerOrAbove")
	}
	if ReceptionistOrAbove.Has(RoleCleaning) {
		t.Fatalf("cleaning is not in ReceptionistOrAbove")
	}
	if !Staff.Has(RoleCleaning) || Staff.Has(RoleGuest) {
		t.Fatalf("Staff must contain cleaning and exclude guests")
	}
	if Staff.Has(Role(0)) {
		t.Fatalf("the zero role belongs to no set")
	}
	if got := ManagerOrAbove.String(); got != "{manager,admin}" {
		t.Fatalf("unexpected String(): %s", got)
	}
}

func TestRole_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleReceptionist})
	if err != nil || string(b) != `{"role":"receptionist"}` {
		t.Fatalf("unexpected encoding %s (%v)", b, err)
	}

	var out struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal([]byte(`{"role":"manager"}`), &out); err != nil || out.Role != RoleManager {
		t.Fatalf("unexpected decoding %v (%v)", out.Role, err)
	}
}
