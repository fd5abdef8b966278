package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{raw: "Instructor", want: RoleInstructor, ok: true},
		{raw: "instructor", want: RoleInstructor, ok: true},
		{raw: " ADMIN ", want: RoleAdmin, ok: true},
		{raw: "student", want: RoleStudent, ok: true},
		{raw: "superuser"},
		{raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseRole(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, RoleInstructor.Valid())
	assert.False(t, Role("instructor").Valid(), "stored roles compare exactly")
}

func TestUserProfileKeepsExtraFields(t *testing.T) {
	var p UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{
		"email": "a@x.com", "name": "Ann", "role": "Admin", "_id": "forged",
		"phone": "555-0100", "gender": "female"
	}`), &p))

	assert.Equal(t, "a@x.com", p.Email)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, map[string]any{"phone": "555-0100", "gender": "female"}, p.Extra)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@x.com","name":"Ann","phone":"555-0100","gender":"female"}`, string(out))
}

func TestUserProfileWritable(t *testing.T) {
	p := UserProfile{Email: "a@x.com", Extra: map[string]any{"role": "Admin", "_id": "x", "email": "b@x.com", "phone": "1"}}

	w := p.Writable()
	assert.Equal(t, map[string]any{"phone": "1"}, w.Extra)
	assert.Len(t, p.Extra, 4, "the original profile is not modified")

	assert.Nil(t, UserProfile{Extra: map[string]any{"role": "Admin"}}.Writable().Extra)
	assert.Nil(t, UserProfile{}.Writable().Extra)
}

func TestUserJSON(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","email":"a@x.com","role":"Student","phone":"555-0100"}`), &u))

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, RoleStudent, u.Role)
	assert.Equal(t, map[string]any{"phone": "555-0100"}, u.Extra)

	u.Extra["role"] = "Admin"
	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u1","email":"a@x.com","role":"Student","phone":"555-0100"}`, string(out),
		"named fields win over extras")

	out, err = json.Marshal(User{Email: "b@x.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"b@x.com"}`, string(out))
}
