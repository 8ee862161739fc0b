package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("unable to log in with provided credentials")
	ErrTokenRevoked      = errors.New("token has been revoked")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// 保留用户名，与 /users/me 路由冲突
var reservedUsernames = map[string]bool{"me": true}

type AuthService struct {
	userRepo *repository.UserRepository
	revoker  TokenRevoker
}

// NewAuthService revoker 为 nil 时注销只在客户端生效
func NewAuthService(userRepo *repository.UserRepository, revoker TokenRevoker) *AuthService {
	return &AuthService{userRepo: userRepo, revoker: revoker}
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisteredUser, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	verr := &ValidationError{}
	if !usernamePattern.MatchString(username) {
		verr.Add("username", "enter a valid username: letters, digits and @/./+/-/_ only")
	} else if reservedUsernames[strings.ToLower(username)] {
		verr.Add("username", "this username is reserved")
	}

	if exists, err := s.userRepo.ExistsByEmail(email); err != nil {
		return nil, err
	} else if exists {
		verr.Add("email", "a user with this email already exists")
	}
	if exists, err := s.userRepo.ExistsByUsername(username); err != nil {
		return nil, err
	} else if exists {
		verr.Add("username", "a user with that username already exists")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword("password", req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  hashedPassword,
		UserRole:  model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return &dto.RegisteredUser{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// Login 邮箱 + 密码登录，返回令牌
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	token, _, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenData{AuthToken: token}, nil
}

// Logout 注销令牌直到其过期
func (s *AuthService) Logout(claims *utils.Claims) error {
	if s.revoker == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return s.revoker.Revoke(ctx, claims.ID, claims.RemainingTTL(time.Now()))
}

// CheckToken 校验令牌未被注销且用户仍存在；查询失败时放行并记日志
func (s *AuthService) CheckToken(claims *utils.Claims) error {
	if s.revoker != nil && claims.ID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		cancel()
		if err != nil {
			logger.Warn("Token revocation lookup failed", zap.Error(err))
		} else if revoked {
			return ErrTokenRevoked
		}
	}

	exists, err := s.userRepo.ExistsByID(claims.UserID)
	if err != nil {
		logger.Warn("Token owner lookup failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return nil
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// SetPassword 修改密码，需提供当前密码
func (s *AuthService) SetPassword(userID int64, req *dto.SetPasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.VerifyPassword(req.CurrentPassword, user.Password) {
		return fieldError("current_password", "invalid password")
	}

	hash, err := hashPassword("new_password", req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, hash)
}

// hashPassword bcrypt 只接受 72 字节以内的密码，超长按字段错误返回
func hashPassword(field, password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fieldError(field, "ensure this field has no more than 72 bytes")
	}
	return hash, err
}
