package model

import (
	"encoding/json"
	"strings"
)

// Role is stored verbatim on the user record and compared case-sensitively.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole maps any casing of a role name onto its stored spelling.
func ParseRole(raw string) (Role, bool) {
	for _, r := range []Role{RoleStudent, RoleInstructor, RoleAdmin} {
		if strings.EqualFold(strings.TrimSpace(raw), string(r)) {
			return r, true
		}
	}
	return "", false
}

// User is a stored user record. Fields the client sent beyond the named ones
// (phone, gender, ...) live in Extra and are written back inline.
type User struct {
	ID    string         `json:"_id,omitempty" bson:"_id,omitempty"`
	Email string         `json:"email" bson:"email"`
	Name  string         `json:"name,omitempty" bson:"name,omitempty"`
	Photo string         `json:"photo,omitempty" bson:"photo,omitempty"`
	Role  Role           `json:"role,omitempty" bson:"role,omitempty"`
	Extra map[string]any `json:"-" bson:",inline"`
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return mergeExtra(plain(u), u.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, "_id", "email", "name", "photo", "role")
	if err != nil {
		return err
	}
	*u = User(p)
	u.Extra = extra
	return nil
}

// UserProfile is the client-writable part of a user record. Role and _id are
// never part of it: roles change only through the admin role endpoint.
type UserProfile struct {
	Email string         `json:"email" bson:"email"`
	Name  string         `json:"name,omitempty" bson:"name,omitempty"`
	Photo string         `json:"photo,omitempty" bson:"photo,omitempty"`
	Extra map[string]any `json:"-" bson:",inline"`
}

// profileFields are the keys kept out of Extra: the named fields plus the
// ones a profile write may not set.
var profileFields = []string{"_id", "role", "email", "name", "photo"}

// Writable drops reserved keys from Extra. A nil Extra stays nil.
func (p UserProfile) Writable() UserProfile {
	if p.Extra == nil {
		return p
	}
	extra := make(map[string]any, len(p.Extra))
	for k, v := range p.Extra {
		extra[k] = v
	}
	for _, k := range profileFields {
		delete(extra, k)
	}
	if len(extra) == 0 {
		extra = nil
	}
	p.Extra = extra
	return p
}

func (p UserProfile) MarshalJSON() ([]byte, error) {
	type plain UserProfile
	return mergeExtra(plain(p), p.Extra)
}

func (p *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	var pl plain
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}
	extra, err := extraFields(data, profileFields...)
	if err != nil {
		return err
	}
	*p = UserProfile(pl)
	p.Extra = extra
	return nil
}

// IdentityClaim is the payload carried by an access token.
type IdentityClaim struct {
	Email string `json:"email"`
}

func extraFields(data []byte, known ...string) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra encodes v and adds the extra keys it does not already carry.
func mergeExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, taken := out[k]; !taken {
			out[k] = val
		}
	}
	return json.Marshal(out)
}
