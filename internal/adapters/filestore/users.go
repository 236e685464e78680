package filestore

import (
	"context"
	"time"

	"github.com/goaltracker/core/internal/domain/entities"
)

// userRecord is the on-disk shape of a user. The API-facing entity
// scrubs the password hash from JSON output, so users are persisted
// through this record to keep the hash on disk.
type userRecord struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	GrokAPIKey *string   `json:"grokApiKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toRecord(u *entities.User) userRecord {
	return userRecord{
		ID:         u.ID,
		Username:   u.Username,
		Password:   u.Password,
		GrokAPIKey: u.GrokAPIKey,
		CreatedAt:  u.CreatedAt,
	}
}

func (rec *userRecord) toEntity() *entities.User {
	return &entities.User{
		ID:         rec.ID,
		Username:   rec.Username,
		Password:   rec.Password,
		GrokAPIKey: rec.GrokAPIKey,
		CreatedAt:  rec.CreatedAt,
	}
}

func userIDs(users []userRecord) []int {
	ids := make([]int, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

// UserStore implements ports.UserRepository over the users file.
type UserStore struct {
	store *Store
}

func (r *UserStore) Create(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := readSlice[userRecord](r.store, usersFile)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Username == user.Username {
			return entities.ErrUsernameTaken
		}
	}

	user.ID = nextID(userIDs(users))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	users = append(users, toRecord(user))
	return writeSlice(r.store, usersFile, users)
}

func (r *UserStore) GetByID(ctx context.Context, id int) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := readSlice[userRecord](r.store, usersFile)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return users[i].toEntity(), nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *UserStore) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := readSlice[userRecord](r.store, usersFile)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			return users[i].toEntity(), nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *UserStore) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return r.mutate(id, func(u *userRecord) {
		u.Password = passwordHash
	})
}

func (r *UserStore) UpdateGrokKey(ctx context.Context, id int, key *string) error {
	return r.mutate(id, func(u *userRecord) {
		u.GrokAPIKey = key
	})
}

func (r *UserStore) mutate(id int, apply func(*userRecord)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := readSlice[userRecord](r.store, usersFile)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == id {
			apply(&users[i])
			return writeSlice(r.store, usersFile, users)
		}
	}
	return entities.ErrUserNotFound
}
