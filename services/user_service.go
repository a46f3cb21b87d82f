package services

import (
	"errors"
	"fmt"
	"strings"

	"rental-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type CreateUserInput struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Password string `json:"password"`
	RoleID   uint   `json:"role_id"`
}

func (s *UserService) Create(in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalid("username", "username is required")
	}
	if len(in.Password) < 8 {
		return nil, invalid("password", "password must be at least 8 characters")
	}

	var existing models.User
	err := s.DB.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		return nil, invalid("username", "username already taken")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FullName: in.FullName,
		Username: username,
		Password: string(hash),
		IsActive: true,
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if in.RoleID != 0 {
			var role models.Role
			if err := tx.First(&role, in.RoleID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("role", in.RoleID)
				}
				return err
			}
			member := models.RoleMember{RoleID: in.RoleID, UserID: user.ID}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &user, nil
}

func (s *UserService) GetAll() ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("full_name ASC").Find(&users).Error
	return users, err
}

func (s *UserService) GetByID(id uint) (models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, notFound("user", id)
	}
	return user, err
}

func (s *UserService) GetByUsername(username string) (models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, notFound("user", 0)
	}
	return user, err
}

func (s *UserService) Delete(id uint) error {
	return s.DB.Delete(&models.User{}, id).Error
}

// VerifyPassword is the credential re-entry check used by destructive
// lifecycle transitions in addition to normal authorization.
func (s *UserService) VerifyPassword(userID uint, password string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return &AuthorizationError{Reason: "password confirmation failed"}
	}
	return nil
}

func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if err := s.VerifyPassword(userID, oldPassword); err != nil {
		return err
	}
	if len(newPassword) < 8 {
		return invalid("password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.DB.Model(&models.User{}).Where("id = ?", userID).Update("password", string(hash)).Error
}

// Roles / permissions

func (s *UserService) GetRoles() ([]models.Role, error) {
	var roles []models.Role
	err := s.DB.
		Preload("Permissions").
		Preload("Members").
		Order("id ASC").
		Find(&roles).Error
	return roles, err
}

func (s *UserService) CreateRole(role *models.Role) error {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return invalid("name", "role name is required")
	}
	var count int64
	if err := s.DB.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return invalid("name", "role name already in use")
	}
	return s.DB.Create(role).Error
}

// DeleteRole removes the role along with its permissions and memberships.
func (s *UserService) DeleteRole(id uint) error {
	var role models.Role
	if err := s.DB.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("role", id)
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.RoleMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
}

// AssignRole moves the user into the given role, replacing any previous one.
func (s *UserService) AssignRole(userID, roleID uint) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	var role models.Role
	if err := s.DB.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("role", roleID)
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RoleMember{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.RoleMember{RoleID: roleID, UserID: userID}).Error
	})
}

// ReplaceRolePermissions swaps a role's permission set in one transaction.
func (s *UserService) ReplaceRolePermissions(roleID uint, permissions []string) error {
	var role models.Role
	if err := s.DB.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("role", roleID)
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		for _, p := range permissions {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			perm := models.RolePermission{RoleID: roleID, Permission: p}
			if err := tx.Create(&perm).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PermissionsForUser collects the permission strings of every role the user
// belongs to.
func (s *UserService) PermissionsForUser(userID uint) ([]string, error) {
	var perms []string
	err := s.DB.Model(&models.RolePermission{}).
		Joins("JOIN role_members ON role_members.role_id = role_permissions.role_id").
		Where("role_members.user_id = ?", userID).
		Distinct().
		Pluck("role_permissions.permission", &perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions for user %d: %w", userID, err)
	}
	return perms, nil
}
