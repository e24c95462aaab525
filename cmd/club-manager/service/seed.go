package service

import (
	"context"
	"time"

	"club-manager-backend/cmd/club-manager/model"

	"go.uber.org/zap"
)

const defaultPassword = "password"

type seedUser struct {
	id, username, name string
	role               model.Role
}

var defaultUsers = []seedUser{
	{"1", "admin", "System Admin", model.RoleAdmin},
	{"2", "member", "Jane Doe", model.RoleMember},
	{"3", "student", "Mike Ross", model.RoleStudent},
	{"4", "clubhead", "Harvey Specter", model.RoleClubHead},
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// Seeder writes the demo data the club started with into collections that
// have never been written, and makes sure the student and clubhead accounts exist in an older
// user list.
type Seeder struct {
	Users         Collection[model.User]
	Members       Collection[model.Member]
	Events        Collection[model.Event]
	Announcements Collection[model.Announcement]
	Funds         Collection[model.Transaction]
	BcryptCost    int
	Logger        *zap.Logger
}

func (s *Seeder) Seed(ctx context.Context) error {

	if err := s.seedUsers(ctx); err != nil {
		return err
	}

	if err := seedIfAbsent(ctx, s.Members, s.Logger, "members", []model.Member{
		{ID: "1", Name: "John Doe", Email: "john@example.com", JoinDate: day("2023-01-15"), Status: model.MemberActive},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", JoinDate: day("2023-02-20"), Status: model.MemberInactive},
	}); err != nil {
		return err
	}

	if err := seedIfAbsent(ctx, s.Events, s.Logger, "events", []model.Event{
		{
			ID:            "1",
			Title:         "Annual Tech Meetup",
			Date:          day("2023-11-20"),
			Venue:         "Main Auditorium",
			Description:   "A gathering of tech enthusiasts.",
			Organizer:     "1",
			OrganizerName: "System Admin",
			Status:        model.EventApproved,
			Attendees:     []model.Enrollment{},
		},
	}); err != nil {
		return err
	}

	if err := seedIfAbsent(ctx, s.Announcements, s.Logger, "announcements", []model.Announcement{
		{ID: "1", Title: "Welcome to the new CMS!", Content: "We are excited to launch our new system.", Date: day("2023-10-01")},
	}); err != nil {
		return err
	}

	return seedIfAbsent(ctx, s.Funds, s.Logger, "funds", []model.Transaction{
		{ID: "1", Type: model.Income, Amount: 500000, Description: "Sponsorship Grant", Date: day("2023-01-01")},
		{ID: "2", Type: model.Expense, Amount: 20000, Description: "Server Hosting", Date: day("2023-01-05")},
	})
}

func (s *Seeder) seedUsers(ctx context.Context) error {

	hash, err := HashPassword(defaultPassword, s.BcryptCost)
	if err != nil {
		return err
	}

	var added []string
	err = updateAt(ctx, s.Users, defaultWriteRetries, func(users []model.User, rev int64) ([]model.User, error) {
		added = added[:0]
		fresh := rev == 0
		existing := map[string]bool{}
		for _, u := range users {
			existing[u.Username] = true
		}

		// A brand new store gets every account; an older one only gets the
		// accounts that were added later.
		for _, d := range defaultUsers {
			if existing[d.username] {
				continue
			}
			if !fresh && d.username != "student" && d.username != "clubhead" {
				continue
			}
			users = append(users, model.User{
				ID:           d.id,
				Username:     d.username,
				PasswordHash: hash,
				Role:         d.role,
				Name:         d.name,
			})
			added = append(added, d.username)
		}

		if len(added) == 0 {
			return nil, errUnchanged
		}
		return users, nil
	})
	if err != nil {
		return err
	}

	if len(added) > 0 {
		s.Logger.Info("seeded users", zap.Strings("usernames", added))
	}

	return nil
}

// seedIfAbsent leaves a collection alone once it has been written, even
// when everything in it has since been deleted.
func seedIfAbsent[T any](ctx context.Context, coll Collection[T], logger *zap.Logger, name string, items []T) error {

	seeded := false
	err := updateAt(ctx, coll, defaultWriteRetries, func(_ []T, rev int64) ([]T, error) {
		seeded = rev == 0
		if !seeded {
			return nil, errUnchanged
		}
		return items, nil
	})
	if err != nil {
		return err
	}

	if seeded {
		logger.Info("seeded collection", zap.Int("count", len(items)), zap.String("collection", name))
	}

	return nil
}
