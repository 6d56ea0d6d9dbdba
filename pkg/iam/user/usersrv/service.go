package usersrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/iam/scopes"
	"github.com/proconsultancy/backend/pkg/iam/user"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// UserService proporciona operaciones de negocio para usuarios del panel
type UserService struct {
	userRepo    user.UserRepository
	passwordSvc user.PasswordService
}

func NewUserService(userRepo user.UserRepository, passwordSvc user.PasswordService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

// CreateUser crea un nuevo usuario del panel
func (s *UserService) CreateUser(ctx context.Context, req user.CreateUserRequest) (*user.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check email existence", errx.TypeInternal)
	}
	if exists {
		return nil, user.ErrUserAlreadyExists().WithDetail("email", req.Email)
	}

	userScopes, err := s.resolveScopes(req.Scopes, req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.HashPassword(req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	newUser := &user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Status:       user.UserStatusActive,
		Scopes:       userScopes,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Save(ctx, *newUser); err != nil {
		return nil, err
	}

	return newUser, nil
}

// GetUserByID obtiene un usuario por ID
func (s *UserService) GetUserByID(ctx context.Context, userID kernel.UserID) (*user.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ListUsers lista todos los usuarios del panel
func (s *UserService) ListUsers(ctx context.Context) (*user.UserListResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]user.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, u.ToDTO())
	}

	return &user.UserListResponse{
		Users: dtos,
		Total: len(dtos),
	}, nil
}

// UpdateUser actualiza un usuario
func (s *UserService) UpdateUser(ctx context.Context, userID kernel.UserID, req user.UpdateUserRequest) (*user.User, error) {
	userEntity, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		userEntity.Name = *req.Name
	}

	if req.Status != nil {
		switch *req.Status {
		case user.UserStatusActive:
			if err := userEntity.Reactivate(); err != nil {
				return nil, err
			}
		case user.UserStatusSuspended:
			if err := userEntity.Suspend(); err != nil {
				return nil, err
			}
		case user.UserStatusInactive:
			userEntity.Status = user.UserStatusInactive
		default:
			return nil, user.ErrInvalidStatus().WithDetail("requested_status", *req.Status)
		}
	}

	if len(req.Scopes) > 0 || req.Role != nil {
		userScopes, err := s.resolveScopes(req.Scopes, req.Role)
		if err != nil {
			return nil, err
		}
		userEntity.SetScopes(userScopes)
	}

	userEntity.UpdatedAt = time.Now()

	if err := s.userRepo.Save(ctx, *userEntity); err != nil {
		return nil, err
	}

	return userEntity, nil
}

// ChangePassword cambia la contraseña del propio usuario
func (s *UserService) ChangePassword(ctx context.Context, userID kernel.UserID, req user.ChangePasswordRequest) error {
	userEntity, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.VerifyPassword(userEntity.PasswordHash, req.CurrentPassword) {
		return user.ErrInvalidStatus().WithMessage("current password does not match")
	}

	hash, err := s.passwordSvc.HashPassword(req.NewPassword)
	if err != nil {
		return errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	userEntity.PasswordHash = hash
	userEntity.UpdatedAt = time.Now()

	return s.userRepo.Save(ctx, *userEntity)
}

// DeleteUser elimina un usuario del panel
func (s *UserService) DeleteUser(ctx context.Context, userID kernel.UserID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// ============================================================================
// Private Helper Methods
// ============================================================================

// resolveScopes determina los scopes finales: directos, por rol, o viewer por defecto
func (s *UserService) resolveScopes(direct []string, role *string) ([]string, error) {
	if len(direct) > 0 {
		if err := s.validateScopes(direct); err != nil {
			return nil, err
		}
		return direct, nil
	}

	if role != nil && *role != "" {
		roleScopes := scopes.GetScopesByGroup(*role)
		if len(roleScopes) == 0 {
			return nil, user.ErrInvalidRole().
				WithDetail("role", *role).
				WithDetail("available_roles", availableRoles())
		}
		return roleScopes, nil
	}

	return scopes.GetScopesByGroup("viewer"), nil
}

func (s *UserService) validateScopes(scopesl []string) error {
	invalid := []string{}
	for _, scope := range scopesl {
		if !scopes.ValidateScope(scope) {
			invalid = append(invalid, scope)
		}
	}

	if len(invalid) > 0 {
		return user.ErrInvalidScopes().WithDetail("invalid_scopes", invalid)
	}

	return nil
}

func availableRoles() []string {
	roles := make([]string, 0, len(scopes.ScopeGroups))
	for role := range scopes.ScopeGroups {
		roles = append(roles, role)
	}
	return roles
}
