package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	cases := map[string]Role{
		"doctor":      RoleDoctor,
		"Medecin":     RoleDoctor,
		"MEDECINS":    RoleDoctor,
		"pharmacist":  RolePharmacist,
		"Pharmacien":  RolePharmacist,
		"pharmaciens": RolePharmacist,
		"pharmacie":   RolePharmacist,
		"Pharmacy":    RolePharmacist,
		"patient":     RolePatient,
		"Client":      RolePatient,
		"admin":       RoleAdmin,
		" doctor ":    RoleDoctor,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeRole(raw), raw)
	}
}

func TestNormalizeRoleUnknown(t *testing.T) {
	for _, raw := range []string{"", "nurse", "doctors "} {
		got := NormalizeRole(raw)
		assert.False(t, got.IsValid(), "%q must not normalize to a known role, got %q", raw, got)
	}
}

func TestUserRoles(t *testing.T) {
	u := &User{Role: RoleDoctor}
	assert.Equal(t, []Role{RoleDoctor}, u.Roles())

	u.IsAdmin = true
	assert.Equal(t, []Role{RoleAdmin, RoleDoctor}, u.Roles())

	admin := &User{IsAdmin: true}
	assert.Equal(t, []Role{RoleAdmin}, admin.Roles())
}

func TestUserDisplayName(t *testing.T) {
	u := &User{Email: "x@example.com"}
	assert.Equal(t, "x@example.com", u.DisplayName())

	u.FullName = "Amel"
	assert.Equal(t, "Amel", u.DisplayName())
}

func TestClaimsHasRole(t *testing.T) {
	c := &Claims{Roles: []Role{RoleAdmin, RoleDoctor}}
	assert.True(t, c.IsAdmin())
	assert.True(t, c.HasRole(RoleDoctor))
	assert.False(t, c.HasRole(RolePatient))
}
