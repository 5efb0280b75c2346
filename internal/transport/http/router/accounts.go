package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/core/auth"
	"blog-api/internal/domain"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/ez"
	mdw "blog-api/internal/transport/http/middleware"
	resp "blog-api/internal/transport/http/response"
)

type accountsModule struct {
	svc *service.AccountService
	jwt *auth.JWTer
	log *zap.Logger
}

func (*accountsModule) Priority() int { return 10 }

type registerIn struct {
	Name            string `json:"name" binding:"required,min=2,max=80"`
	Email           string `json:"email" binding:"required,email,max=191"`
	Password        string `json:"password" binding:"required,strongpwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,strongpwd"`
}

type registerOut struct {
	ID      int    `json:"id"`
	User    string `json:"user"`
	Message string `json:"message"`
}

type loginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string `json:"token"`
}

type editIn struct {
	Name  string `json:"name" binding:"required,min=2,max=80"`
	Email string `json:"email" binding:"required,email,max=191"`
}

// 新密码强度在旧密码校验之后由 service 判定
type passwordIn struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,max=100"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,max=100"`
}

type deleteIn struct {
	Password string `json:"password" binding:"required"`
}

type deleteOut struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type bioIn struct {
	Bio string `json:"bio" binding:"required,min=3,max=1000"`
}

type avatarIn struct {
	Base64Image string `json:"base64Image" binding:"required"`
}

type avatarOut struct {
	Image string `json:"image"`
}

type usersOut struct {
	Total int64         `json:"total"`
	Users []domain.User `json:"users"`
}

type messageOut struct {
	Message string `json:"message"`
}

func (m *accountsModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/accounts"), m.log)

	ez.RegisterAction(e, ez.Action[registerIn, registerOut]{
		Method: http.MethodPost, Path: "/", Binder: ez.BindJSON, Handler: m.register,
	})
	ez.RegisterAction(e, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost, Path: "/login", Binder: ez.BindJSON, Handler: m.login,
	})
	ez.RegisterAction(e, ez.Action[avatarIn, avatarOut]{
		Method: http.MethodPost, Path: "/upload-image", Binder: ez.BindJSON,
		Guards:  []gin.HandlerFunc{mdw.AuthJWT(m.jwt, "")},
		Handler: m.uploadImage,
	})
	ez.RegisterAction(e, ez.Action[bioIn, *domain.User]{
		Method: http.MethodPost, Path: "/bio/:id", Binder: ez.BindJSON, PathID: true, Handler: m.setBio,
	})
	ez.RegisterAction(e, ez.Action[struct{}, usersOut]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone, Handler: m.list,
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Post]{
		Method: http.MethodGet, Path: "/posts/:id", Binder: ez.BindNone, PathID: true, Handler: m.posts,
	})
	ez.RegisterAction(e, ez.Action[struct{}, any]{
		Method: http.MethodGet, Path: "/:identifier", Binder: ez.BindNone, Handler: m.find,
	})
	ez.RegisterAction(e, ez.Action[editIn, *domain.User]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON, PathID: true, Handler: m.edit,
	})
	ez.RegisterAction(e, ez.Action[passwordIn, messageOut]{
		Method: http.MethodPut, Path: "/password/:id", Binder: ez.BindJSON, PathID: true, Handler: m.changePassword,
	})
	ez.RegisterAction(e, ez.Action[deleteIn, deleteOut]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindJSON, PathID: true, Handler: m.remove,
	})
}

// accountErr 账号流程错误 -> HTTP 状态 + 业务码
func accountErr(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return ez.Invalid([]string{"id must be a positive integer"})
	case errors.Is(err, service.ErrPasswordMismatch):
		return ez.Coded(http.StatusBadRequest, resp.ErrCodePasswordMismatch, "passwords do not match")
	case errors.Is(err, service.ErrConfirmMismatch):
		return ez.Coded(http.StatusBadRequest, resp.ErrCodeConfirmMismatch, "confirmation mismatch")
	case errors.Is(err, service.ErrWeakPassword):
		return ez.Invalid([]string{"newPassword must be 8-100 characters and contain upper and lower case letters, a digit and a special character"})
	case errors.Is(err, service.ErrOldPasswordIncorrect):
		return ez.Coded(http.StatusUnauthorized, resp.ErrCodeOldPassword, "old password incorrect")
	case errors.Is(err, service.ErrInvalidCredentials):
		return ez.Unauthorized("invalid credentials")
	case errors.Is(err, service.ErrInvalidImage):
		return ez.BadRequest("invalid image")
	case errors.Is(err, service.ErrAvatarStore):
		return ez.Internal(resp.ErrCodeInternal, err)
	case errors.Is(err, service.ErrAvatarPersist):
		return ez.Internal(resp.ErrCodeAvatarPersist, err)
	case errors.Is(err, domain.ErrConflict):
		return ez.Coded(http.StatusBadRequest, resp.ErrCodeDuplicateEmail, "email already registered")
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound("user not found")
	}
	return ez.Internal("", err)
}

// register godoc
// @Summary  注册账号
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    body body registerIn true "账号信息"
// @Success  200 {object} response.Resp{data=registerOut}
// @Failure  400 {object} response.Resp
// @Failure  500 {object} response.Resp
// @Router   /v1/accounts/ [post]
func (m *accountsModule) register(c *gin.Context, in *registerIn) (registerOut, error) {
	u, err := m.svc.Register(c.Request.Context(), service.RegisterInput{
		Name: in.Name, Email: in.Email, Password: in.Password, ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		return registerOut{}, accountErr(err)
	}
	return registerOut{ID: u.ID, User: u.Email, Message: "account created"}, nil
}

// login godoc
// @Summary  登录并获取 token
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    body body loginIn true "凭据"
// @Success  200 {object} response.Resp{data=loginOut}
// @Failure  401 {object} response.Resp
// @Router   /v1/accounts/login [post]
func (m *accountsModule) login(c *gin.Context, in *loginIn) (loginOut, error) {
	tok, err := m.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		return loginOut{}, accountErr(err)
	}
	return loginOut{Token: tok}, nil
}

// uploadImage godoc
// @Summary  上传头像（base64）
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    body body avatarIn true "图片"
// @Success  200 {object} response.Resp{data=avatarOut}
// @Failure  400 {object} response.Resp
// @Failure  401 {object} response.Resp
// @Failure  500 {object} response.Resp
// @Router   /v1/accounts/upload-image [post]
func (m *accountsModule) uploadImage(c *gin.Context, in *avatarIn) (avatarOut, error) {
	url, err := m.svc.UploadAvatar(c.Request.Context(), c.GetInt(mdw.KeyUserID), in.Base64Image)
	if err != nil {
		return avatarOut{}, accountErr(err)
	}
	return avatarOut{Image: url}, nil
}

// setBio godoc
// @Summary  设置简介
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    id   path int   true "用户 id"
// @Param    body body bioIn true "简介"
// @Success  200 {object} response.Resp{data=domain.User}
// @Failure  404 {object} response.Resp
// @Router   /v1/accounts/bio/{id} [post]
func (m *accountsModule) setBio(c *gin.Context, in *bioIn) (*domain.User, error) {
	u, err := m.svc.SetBio(c.Request.Context(), ez.ID(c), in.Bio)
	if err != nil {
		return nil, accountErr(err)
	}
	return u, nil
}

// list godoc
// @Summary  用户列表
// @Tags     accounts
// @Produce  json
// @Success  200 {object} response.Resp{data=usersOut}
// @Router   /v1/accounts [get]
func (m *accountsModule) list(c *gin.Context, _ *struct{}) (usersOut, error) {
	users, total, err := m.svc.List(c.Request.Context())
	if err != nil {
		return usersOut{}, accountErr(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return usersOut{Total: total, Users: users}, nil
}

// find godoc
// @Summary  按 id 或名字查找
// @Tags     accounts
// @Produce  json
// @Param    identifier path string true "id 或名字片段"
// @Success  200 {object} response.Resp
// @Failure  404 {object} response.Resp
// @Router   /v1/accounts/{identifier} [get]
func (m *accountsModule) find(c *gin.Context, _ *struct{}) (any, error) {
	u, users, err := m.svc.Find(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		return nil, accountErr(err)
	}
	if u != nil {
		return u, nil
	}
	return users, nil
}

// posts godoc
// @Summary  某用户的文章
// @Tags     accounts
// @Produce  json
// @Param    id path int true "用户 id"
// @Success  200 {object} response.Resp{data=[]domain.Post}
// @Failure  404 {object} response.Resp
// @Router   /v1/accounts/posts/{id} [get]
func (m *accountsModule) posts(c *gin.Context, _ *struct{}) ([]domain.Post, error) {
	posts, err := m.svc.Posts(c.Request.Context(), ez.ID(c))
	if err != nil {
		return nil, accountErr(err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// edit godoc
// @Summary  修改资料
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    id   path int    true "用户 id"
// @Param    body body editIn true "资料"
// @Success  200 {object} response.Resp{data=domain.User}
// @Failure  400 {object} response.Resp
// @Failure  404 {object} response.Resp
// @Router   /v1/accounts/{id} [put]
func (m *accountsModule) edit(c *gin.Context, in *editIn) (*domain.User, error) {
	u, err := m.svc.EditProfile(c.Request.Context(), ez.ID(c), in.Name, in.Email)
	if err != nil {
		return nil, accountErr(err)
	}
	return u, nil
}

// changePassword godoc
// @Summary  修改密码
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    id   path int        true "用户 id"
// @Param    body body passwordIn true "旧密码与新密码"
// @Success  200 {object} response.Resp{data=messageOut}
// @Failure  400 {object} response.Resp
// @Failure  401 {object} response.Resp
// @Failure  404 {object} response.Resp
// @Router   /v1/accounts/password/{id} [put]
func (m *accountsModule) changePassword(c *gin.Context, in *passwordIn) (messageOut, error) {
	err := m.svc.ChangePassword(c.Request.Context(), ez.ID(c), in.OldPassword, in.NewPassword, in.ConfirmPassword)
	if err != nil {
		return messageOut{}, accountErr(err)
	}
	return messageOut{Message: "password changed"}, nil
}

// remove godoc
// @Summary  删除账号
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Param    id   path int      true "用户 id"
// @Param    body body deleteIn true "当前密码"
// @Success  200 {object} response.Resp{data=deleteOut}
// @Failure  401 {object} response.Resp
// @Failure  404 {object} response.Resp
// @Router   /v1/accounts/{id} [delete]
func (m *accountsModule) remove(c *gin.Context, in *deleteIn) (deleteOut, error) {
	u, err := m.svc.Delete(c.Request.Context(), ez.ID(c), in.Password)
	if err != nil {
		return deleteOut{}, accountErr(err)
	}
	return deleteOut{Name: u.Name, Email: u.Email, Message: "account deleted, goodbye"}, nil
}
