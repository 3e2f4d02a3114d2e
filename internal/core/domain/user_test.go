package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserProfile_CompanyNormalized_StripsAtPrefix(t *testing.T) {
	u := UserProfile{Company: "@GovTech"}
	assert.Equal(t, "govtech", u.CompanyNormalized())
}

func TestUserProfile_CompanyNormalized_TrimsWhitespace(t *testing.T) {
	u := UserProfile{Company: "  @ Grab  "}
	assert.Equal(t, "grab", u.CompanyNormalized())
}

func TestUserProfile_CompanyNormalized_CaseFolds(t *testing.T) {
	u := UserProfile{Company: "SeaGroup"}
	assert.Equal(t, "seagroup", u.CompanyNormalized())
}

func TestUserProfile_CompanyNormalized_Empty(t *testing.T) {
	u := UserProfile{}
	assert.Empty(t, u.CompanyNormalized())
}

func TestUserProfile_CompanyNormalized_OnlyAtSign(t *testing.T) {
	u := UserProfile{Company: "@"}
	assert.Empty(t, u.CompanyNormalized())
}

func TestUserProfile_DisplayName_PrefersName(t *testing.T) {
	u := UserProfile{Login: "octocat", Name: "The Octocat"}
	assert.Equal(t, "The Octocat", u.DisplayName())
}

func TestUserProfile_DisplayName_FallsBackToLogin(t *testing.T) {
	u := UserProfile{Login: "octocat"}
	assert.Equal(t, "octocat", u.DisplayName())
}
