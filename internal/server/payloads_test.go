package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPayloadValidate(t *testing.T) {
	valid := registerPayload{
		Name:     "A Member",
		Email:    "member@kinsust.org",
		Gender:   "female",
		Password: "sound-password",
		Mobile:   "+8801712345678",
	}

	t.Run("accepts a complete payload", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("accepts a local mobile number", func(t *testing.T) {
		p := valid
		p.Mobile = "01712345678"
		assert.NoError(t, p.Validate())
	})

	t.Run("rejects a bad email", func(t *testing.T) {
		p := valid
		p.Email = "not-an-email"
		assert.Error(t, p.Validate())
	})

	t.Run("rejects a short password", func(t *testing.T) {
		p := valid
		p.Password = "abc"
		assert.Error(t, p.Validate())
	})

	t.Run("rejects an impossible mobile number", func(t *testing.T) {
		p := valid
		p.Mobile = "12345"
		assert.Error(t, p.Validate())
	})

	t.Run("mobile is optional", func(t *testing.T) {
		p := valid
		p.Mobile = ""
		assert.NoError(t, p.Validate())
	})

	t.Run("rejects an unknown gender value", func(t *testing.T) {
		p := valid
		p.Gender = "unknown"
		assert.Error(t, p.Validate())
	})
}

func TestRolePayloadValidate(t *testing.T) {
	assert.NoError(t, rolePayload{Role: "admin"}.Validate())
	assert.NoError(t, rolePayload{Role: "superAdmin"}.Validate())
	assert.Error(t, rolePayload{Role: "root"}.Validate())
	assert.Error(t, rolePayload{}.Validate())
}

func TestBulkDeletePayloadValidate(t *testing.T) {
	t.Run("requires explicit ids", func(t *testing.T) {
		assert.Error(t, bulkDeletePayload{}.Validate())
	})

	t.Run("accepts uuid lists", func(t *testing.T) {
		p := bulkDeletePayload{IDs: []string{
			"0c5dd4f6-3b0e-4a92-b365-6e0f3e9bfb41",
			"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		}}
		assert.NoError(t, p.Validate())
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		p := bulkDeletePayload{IDs: []string{"not-a-uuid"}}
		assert.Error(t, p.Validate())
	})
}

func TestAdvisorPayloadValidate(t *testing.T) {
	valid := advisorPayload{
		Name:        "Dr. Advisor",
		Designation: "Professor",
		Email:       "advisor@sust.edu",
	}

	assert.NoError(t, valid.Validate())

	p := valid
	p.Email = "nope"
	assert.Error(t, p.Validate())

	// patches may omit everything
	assert.NoError(t, advisorPatchPayload{}.Validate())
}

func TestCommitteePayloadValidate(t *testing.T) {
	assert.NoError(t, committeePayload{Name: "17th Executive Committee", Year: 2025}.Validate())
	assert.Error(t, committeePayload{Name: "x", Year: 2025}.Validate())
	assert.Error(t, committeePayload{Name: "17th Executive Committee", Year: 1990}.Validate())
}
