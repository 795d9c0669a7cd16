package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

type TeamService struct {
	d Deps
}

type AddMemberInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,in=sales_person"`
}

type UpdateMemberInput struct {
	Name     *string `json:"name"      validate:"nullable,max=255"`
	Email    *string `json:"email"     validate:"nullable,email,max=255"`
	Password *string `json:"password"  validate:"nullable,min=8"`
	IsActive *bool   `json:"is_active"`
}

// List returns the members of the caller's shop by id.
func (s *TeamService) List(ctx context.Context, p policies.Principal) ([]models.User, error) {
	if err := s.d.Gate.Authorize(p, policies.TeamList, policies.Resource{}); err != nil {
		return nil, err
	}
	return s.d.Store.Users.ListByShop(ctx, p.Shop())
}

// Add creates an active sales person in the owner's shop.
func (s *TeamService) Add(ctx context.Context, p policies.Principal, in AddMemberInput) (*models.User, error) {
	if err := s.d.Gate.Authorize(p, policies.TeamCreate, policies.Resource{}); err != nil {
		return nil, err
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.d.Store.Users.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Field("email", "The email has already been taken.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("team: hash password: %w", err)
	}
	shopID := p.Shop()
	member := &models.User{
		Name:     in.Name,
		Email:    email,
		Password: &hash,
		Role:     models.Role(in.Role),
		ShopID:   &shopID,
		Status:   models.UserActive,
	}
	if err := s.d.Store.Users.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("team: create member: %w", err)
	}
	logger.WithCtx(ctx).Info("team: member added", "member_id", member.ID)
	return member, nil
}

func (s *TeamService) Show(ctx context.Context, p policies.Principal, id uint) (*models.User, error) {
	member, err := s.d.Store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.TeamView, policies.ForMember(member)); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *TeamService) Update(ctx context.Context, p policies.Principal, id uint, in UpdateMemberInput) (*models.User, error) {
	member, err := s.d.Store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.TeamUpdate, policies.ForMember(member)); err != nil {
		return nil, err
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}

	fields := make(map[string]interface{})
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Field("name", "The name field is required.")
		}
		fields["name"] = *in.Name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		taken, err := s.d.Store.Users.EmailTaken(ctx, email, member.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Field("email", "The email has already been taken.")
		}
		fields["email"] = email
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("team: hash password: %w", err)
		}
		fields["password"] = hash
	}
	if in.IsActive != nil {
		fields["status"] = statusFor(*in.IsActive)
	}

	if len(fields) > 0 {
		if err := s.d.Store.Users.Update(ctx, member, fields); err != nil {
			return nil, err
		}
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := revokeUserTokens(ctx, s.d, member.ID); err != nil {
			return nil, err
		}
	}
	return s.d.Store.Users.FindByID(ctx, id)
}

func (s *TeamService) Remove(ctx context.Context, p policies.Principal, id uint) error {
	member, err := s.d.Store.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Gate.Authorize(p, policies.TeamDelete, policies.ForMember(member)); err != nil {
		return err
	}

	var revoked []string
	err = s.d.Store.Transaction(ctx, func(tx *repositories.Store) error {
		ids, err := tx.Tokens.DeleteForUser(ctx, member.ID)
		if err != nil {
			return err
		}
		revoked = ids
		return tx.Users.Delete(ctx, member)
	})
	if err != nil {
		return err
	}
	return evictTokens(ctx, s.d, revoked)
}

// ToggleStatus flips a member between active and deactivated. Deactivation
// revokes every token they hold.
func (s *TeamService) ToggleStatus(ctx context.Context, p policies.Principal, id uint) (*models.User, error) {
	member, err := s.d.Store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.TeamToggle, policies.ForMember(member)); err != nil {
		return nil, err
	}

	activate := !member.IsActive()
	if err := s.d.Store.Users.Update(ctx, member, map[string]interface{}{"status": statusFor(activate)}); err != nil {
		return nil, err
	}
	if !activate {
		if err := revokeUserTokens(ctx, s.d, member.ID); err != nil {
			return nil, err
		}
	}
	return s.d.Store.Users.FindByID(ctx, id)
}

func statusFor(active bool) models.UserStatus {
	if active {
		return models.UserActive
	}
	return models.UserDeactivated
}
