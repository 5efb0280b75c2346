package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"blog-api/internal/core/metrics"
	"blog-api/internal/core/storage"
	"blog-api/internal/domain"
	"blog-api/pkg/utils"
)

// Notifier 异步邮件，失败只记日志
type Notifier interface {
	Notify(ctx context.Context, name, email, subject, body string)
}

type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

type AccountService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	store  storage.Store
	notify Notifier
	log    *zap.Logger
}

func NewAccountService(users domain.UserRepository, tokens TokenIssuer, store storage.Store, n Notifier, l *zap.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, store: store, notify: n, log: l}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (u *domain.User, err error) {
	defer func() { metrics.Account("register", err) }()

	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	email := normEmail(in.Email)
	u = &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Slug:         utils.Slugify(email),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.log.Error("register: create user", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}
	s.log.Info("user registered", zap.Int("uid", u.ID))
	s.notify.Notify(ctx, u.Name, u.Email, "Welcome to the blog",
		fmt.Sprintf("Hi %s, your account has been created.", u.Name))
	return u, nil
}

var checkPassword = utils.CheckPassword

// dummyHash 未知邮箱时也跑一次 bcrypt，响应耗时与密码错误一致
var dummyHash = sync.OnceValue(func() string {
	h, err := utils.HashPassword("Dummy-password-0")
	if err != nil {
		panic(err)
	}
	return h
})

// Login 未知邮箱与密码错误返回同一个错误
func (s *AccountService) Login(ctx context.Context, email, password string) (token string, err error) {
	defer func() { metrics.Account("login", err) }()

	u, err := s.users.FindByEmail(ctx, normEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			checkPassword(password, dummyHash())
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !checkPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u)
}

func (s *AccountService) load(ctx context.Context, id int) (*domain.User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.users.FindByID(ctx, id)
}

func (s *AccountService) EditProfile(ctx context.Context, id int, name, email string) (u *domain.User, err error) {
	defer func() { metrics.Account("edit", err) }()

	if u, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(name)
	u.Email = normEmail(email)
	u.Slug = utils.Slugify(u.Email)
	if err = s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, u.Name, u.Email, "Profile updated",
		"Your profile details were changed. If this was not you, contact support.")
	return u, nil
}

// ChangePassword 依次校验旧密码、确认密码、新密码强度
func (s *AccountService) ChangePassword(ctx context.Context, id int, oldPwd, newPwd, confirm string) (err error) {
	defer func() { metrics.Account("password", err) }()

	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(oldPwd, u.PasswordHash) {
		return ErrOldPasswordIncorrect
	}
	if newPwd != confirm {
		return ErrConfirmMismatch
	}
	if !utils.StrongPassword(newPwd) {
		return ErrWeakPassword
	}
	hash, err := utils.HashPassword(newPwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err = s.users.Update(ctx, u); err != nil {
		return err
	}
	s.notify.Notify(ctx, u.Name, u.Email, "Password changed",
		"Your password was changed. If this was not you, reset it immediately.")
	return nil
}

func (s *AccountService) Delete(ctx context.Context, id int, password string) (u *domain.User, err error) {
	defer func() { metrics.Account("delete", err) }()

	if u, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if err = s.users.Delete(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user deleted", zap.Int("uid", u.ID))
	s.notify.Notify(ctx, u.Name, u.Email, "Goodbye",
		fmt.Sprintf("Hi %s, your account has been removed.", u.Name))
	return u, nil
}

func (s *AccountService) SetBio(ctx context.Context, id int, bio string) (u *domain.User, err error) {
	defer func() { metrics.Account("bio", err) }()

	if u, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	u.Bio = strings.TrimSpace(bio)
	if err = s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

var dataURLPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// decodeImage 去掉 data URL 前缀后 base64 解码并探测类型
func decodeImage(raw string) ([]byte, *mimetype.MIME, error) {
	raw = dataURLPrefix.ReplaceAllString(strings.TrimSpace(raw), "")
	// 客户端常按行折断 base64
	raw = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(data) == 0 {
		return nil, nil, ErrInvalidImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, nil, ErrInvalidImage
	}
	return data, mt, nil
}

// UploadAvatar 存储失败与持久化失败是两个不同的错误
func (s *AccountService) UploadAvatar(ctx context.Context, uid int, b64 string) (url string, err error) {
	defer func() { metrics.Account("avatar", err) }()

	data, mt, err := decodeImage(b64)
	if err != nil {
		return "", err
	}
	u, err := s.load(ctx, uid)
	if err != nil {
		return "", err
	}
	name := utils.NewID() + mt.Extension()
	url, err = s.store.Put(ctx, name, mt.String(), data)
	if err != nil {
		s.log.Error("avatar: store", zap.Int("uid", uid), zap.Error(err))
		return "", ErrAvatarStore
	}
	u.Image = url
	if err = s.users.Update(ctx, u); err != nil {
		s.log.Error("avatar: persist", zap.Int("uid", uid), zap.Error(err))
		return "", ErrAvatarPersist
	}
	return url, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.User, int64, error) {
	return s.users.List(ctx, 0, 0, "")
}

// Find 数字按 id 查，否则按名字模糊查
func (s *AccountService) Find(ctx context.Context, identifier string) (*domain.User, []domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if id, err := strconv.Atoi(identifier); err == nil {
		u, err := s.load(ctx, id)
		return u, nil, err
	}
	users, err := s.users.SearchByName(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if len(users) == 0 {
		return nil, nil, domain.ErrNotFound
	}
	return nil, users, nil
}

func (s *AccountService) Posts(ctx context.Context, id int) ([]domain.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.users.Posts(ctx, id)
}
