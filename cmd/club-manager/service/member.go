package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var rowValidator = validator.New()

// MemberService manages the club roster. Every operation is admin only.
type MemberService struct {
	members Collection[model.Member]
	logger  *zap.Logger
	opts    options
}

func NewMemberService(members Collection[model.Member], logger *zap.Logger, opts ...Option) *MemberService {
	return &MemberService{
		members: members,
		logger:  logger,
		opts:    newOptions(opts),
	}
}

// ListMembers filters by a case-insensitive substring of name or email.
func (s *MemberService) ListMembers(ctx context.Context, actor model.Actor, query string) ([]model.Member, error) {

	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	members, err := load(ctx, s.members)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return members, nil
	}

	out := []model.Member{}
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SaveMember creates a member when id is empty and otherwise updates the
// name, email and status of an existing one.
func (s *MemberService) SaveMember(ctx context.Context, actor model.Actor, id string, req model.MemberRequest) (model.Member, error) {

	if !actor.IsAdmin() {
		return model.Member{}, ErrForbidden
	}

	status := req.Status
	if status == "" {
		status = model.MemberActive
	}
	if status != model.MemberActive && status != model.MemberInactive {
		return model.Member{}, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}

	var saved model.Member
	var err error

	if id == "" {
		saved = model.Member{
			Name:     strings.TrimSpace(req.Name),
			Email:    strings.TrimSpace(req.Email),
			Status:   status,
			JoinDate: s.opts.now().UTC(),
		}
		saved.ID, err = newID()
		if err != nil {
			return model.Member{}, err
		}

		err = update(ctx, s.members, s.opts.writeRetries, func(members []model.Member) ([]model.Member, error) {
			return append(members, saved), nil
		})
	} else {
		err = update(ctx, s.members, s.opts.writeRetries, func(members []model.Member) ([]model.Member, error) {
			for i := range members {
				if members[i].ID == id {
					members[i].Name = strings.TrimSpace(req.Name)
					members[i].Email = strings.TrimSpace(req.Email)
					members[i].Status = status
					saved = members[i]
					return members, nil
				}
			}
			return nil, fmt.Errorf("member %s: %w", id, ErrNotFound)
		})
	}
	if err != nil {
		return model.Member{}, err
	}

	s.logger.Info("member saved", zap.String("member_id", saved.ID))

	return saved, nil
}

func (s *MemberService) DeleteMember(ctx context.Context, actor model.Actor, id string) error {

	if !actor.IsAdmin() {
		return ErrForbidden
	}

	err := update(ctx, s.members, s.opts.writeRetries, func(members []model.Member) ([]model.Member, error) {
		for i := range members {
			if members[i].ID == id {
				return append(members[:i], members[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("member %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("member deleted", zap.String("member_id", id))

	return nil
}

// ImportMembers appends every row of a name,email,status,join_date CSV.
// A leading byte order mark is dropped. Rows without a name or email fail
// the whole import, and so does an email that would not pass MemberRequest
// validation.
func (s *MemberService) ImportMembers(ctx context.Context, actor model.Actor, r io.Reader) (int, error) {

	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}

	var rows []model.MemberCSV
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.opts.now().UTC()
	imported := make([]model.Member, 0, len(rows))
	for n, row := range rows {
		name := strings.TrimSpace(row.Name)
		email := strings.TrimSpace(row.Email)
		if name == "" || email == "" {
			return 0, fmt.Errorf("%w: row %d needs name and email", ErrInvalidInput, n+1)
		}
		if err := rowValidator.Var(email, "email"); err != nil {
			return 0, fmt.Errorf("%w: row %d email %q", ErrInvalidInput, n+1, email)
		}

		status := model.MemberStatus(strings.TrimSpace(row.Status))
		if status == "" {
			status = model.MemberActive
		}
		if status != model.MemberActive && status != model.MemberInactive {
			return 0, fmt.Errorf("%w: row %d status %q", ErrInvalidInput, n+1, status)
		}

		joined := now
		if strings.TrimSpace(row.JoinDate) != "" {
			t, err := model.ParseDate(row.JoinDate)
			if err != nil {
				return 0, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, n+1, err)
			}
			joined = t
		}

		id, err := newID()
		if err != nil {
			return 0, err
		}
		imported = append(imported, model.Member{
			ID:       id,
			Name:     name,
			Email:    email,
			Status:   status,
			JoinDate: joined,
		})
	}

	if len(imported) == 0 {
		return 0, nil
	}

	err := update(ctx, s.members, s.opts.writeRetries, func(members []model.Member) ([]model.Member, error) {
		return append(members, imported...), nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("members imported", zap.Int("count", len(imported)))

	return len(imported), nil
}

func (s *MemberService) ExportMembers(ctx context.Context, actor model.Actor, w io.Writer) error {

	if !actor.IsAdmin() {
		return ErrForbidden
	}

	members, err := load(ctx, s.members)
	if err != nil {
		return err
	}

	rows := make([]model.MemberCSV, 0, len(members))
	for _, m := range members {
		rows = append(rows, model.MemberCSV{
			Name:     m.Name,
			Email:    m.Email,
			Status:   string(m.Status),
			JoinDate: m.JoinDate.Format("2006-01-02"),
		})
	}

	return gocsv.Marshal(rows, w)
}
