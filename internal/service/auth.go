package service

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"slices"

	"github.com/kotenkov/event_market/internal/hash"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/models"
	"github.com/kotenkov/event_market/internal/repo"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type AuthService struct {
	Repo *repo.GormRepo
}

type SignupInput struct {
	Role     string
	Name     string
	Email    string
	LoginID  string
	Password string
	Category string
	Phone    string
}

// SignupResult carries the created user plus the vendor record when the role
// is Vendor.
type SignupResult struct {
	User   *models.User
	Vendor *models.Vendor
}

func validateSignup(in SignupInput) error {
	if in.Role != models.RoleUser && in.Role != models.RoleVendor {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, in.Role)
	}
	if in.Name == "" || in.LoginID == "" {
		return fmt.Errorf("%w: name and user id are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if in.Role == models.RoleVendor {
		if !slices.Contains(models.VendorCategories, in.Category) {
			return fmt.Errorf("%w: invalid vendor category %q", ErrValidation, in.Category)
		}
		if !phonePattern.MatchString(in.Phone) {
			return fmt.Errorf("%w: phone must be 10 digits", ErrValidation)
		}
	}
	return nil
}

// Signup registers a user; for the Vendor role the vendor record is created
// in the same transaction.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup", "login_id", in.LoginID)

	if err := validateSignup(in); err != nil {
		return nil, err
	}

	if taken, err := s.Repo.LoginIDTaken(ctx, in.LoginID); err != nil {
		return nil, storeErr(err)
	} else if taken {
		return nil, fmt.Errorf("%w: user id already exists", ErrConflict)
	}
	if taken, err := s.Repo.EmailTaken(ctx, in.Email); err != nil {
		return nil, storeErr(err)
	} else if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	result := &SignupResult{}
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		user := models.User{
			LoginID:      in.LoginID,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: pwHash,
			Role:         in.Role,
			Active:       true,
		}
		if err := tx.CreateUser(ctx, &user); err != nil {
			if repo.IsDuplicate(err) {
				return fmt.Errorf("%w: user id or email already registered", ErrConflict)
			}
			return storeErr(err)
		}
		result.User = &user

		if in.Role == models.RoleVendor {
			vendor := models.Vendor{
				UserID:     user.ID,
				VendorName: in.Name,
				Category:   in.Category,
				Email:      in.Email,
				Phone:      in.Phone,
				Status:     models.VendorActive,
			}
			if err := tx.CreateVendor(ctx, &vendor); err != nil {
				return storeErr(err)
			}
			result.Vendor = &vendor
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("signup complete", "role", in.Role)
	return result, nil
}

// Login checks credentials for the given login id and role. An inactive
// account is rejected even with a correct password.
func (s *AuthService) Login(ctx context.Context, loginID, role, password string) (*models.User, *models.Vendor, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "login_id", loginID)

	if loginID == "" || password == "" || role == "" {
		return nil, nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	user, err := s.Repo.UserByLoginAndRole(ctx, loginID, role)
	if err != nil {
		return nil, nil, notFoundOr(err, "user")
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad password")
		return nil, nil, fmt.Errorf("%w: invalid user id or password", ErrNotFound)
	}
	if !user.Active {
		return nil, nil, fmt.Errorf("%w: account is inactive", ErrForbidden)
	}

	var vendor *models.Vendor
	if user.Role == models.RoleVendor {
		vendor, err = s.Repo.GetVendorByUserID(ctx, user.ID)
		if err != nil {
			return nil, nil, notFoundOr(err, "vendor profile")
		}
	}

	l.Info("login ok", "role", user.Role)
	return user, vendor, nil
}
