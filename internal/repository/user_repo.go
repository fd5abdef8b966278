package repository

import (
	"context"
	"fmt"
	"strings"

	"craftopia-api/internal/model"
	"craftopia-api/internal/store"
)

type UserRepository struct {
	coll   store.Collection
	admins map[string]struct{}
}

// NewUserRepository serves users from coll. A record first created for one of
// bootstrapAdmins starts as an admin instead of a student; existing records
// are never promoted this way.
func NewUserRepository(coll store.Collection, bootstrapAdmins ...string) *UserRepository {
	admins := make(map[string]struct{}, len(bootstrapAdmins))
	for _, email := range bootstrapAdmins {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &UserRepository{coll: coll, admins: admins}
}

// FindByEmail returns nil when no user has the email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	found, err := r.coll.FindOne(ctx, store.Filter{"email": email}, &u)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// Upsert writes the profile onto the record keyed by email. A record created
// here starts as a student unless the email is a bootstrap admin.
func (r *UserRepository) Upsert(ctx context.Context, email string, profile model.UserProfile) (store.UpdateResult, error) {
	profile = profile.Writable()
	profile.Email = email

	res, err := r.coll.UpdateOne(ctx,
		store.Filter{"email": email},
		store.Update{
			Set:         profile,
			SetOnInsert: map[string]any{"role": r.initialRole(email)},
		},
		true)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("upsert user: %w", err)
	}
	return res, nil
}

func (r *UserRepository) initialRole(email string) model.Role {
	if _, ok := r.admins[strings.ToLower(email)]; ok {
		return model.RoleAdmin
	}
	return model.RoleStudent
}

func (r *UserRepository) SetRole(ctx context.Context, email string, role model.Role) (store.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		store.Filter{"email": email},
		store.Update{Set: map[string]any{"role": role}},
		false)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("set user role: %w", err)
	}
	return res, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.coll.Find(ctx, nil, store.FindOptions{}, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return orEmpty(users), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	if err := r.coll.Find(ctx, store.Filter{"role": role}, store.FindOptions{}, &users); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return orEmpty(users), nil
}
