package ez

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "blog-api/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 统一错误对象：HTTP 状态 + 业务码 + 字段错误
type AErr struct {
	Status  int
	Code    string
	Msg     string
	Details []string
	Err     error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Status: http.StatusNotFound, Msg: msg} }

// Coded 同一状态码下用 code 区分
func Coded(status int, code, msg string) error {
	return &AErr{Status: status, Code: code, Msg: msg}
}

// Internal 细节只进日志
func Internal(code string, err error) error {
	if code == "" {
		code = resp.ErrCodeInternal
	}
	return &AErr{Status: http.StatusInternalServerError, Code: code, Msg: "internal error", Err: err}
}

func Invalid(details []string) error {
	return &AErr{Status: http.StatusBadRequest, Code: resp.ErrCodeValidation, Msg: "validation failed", Details: details}
}

// Action 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string
	Binder  Binder
	PathID  bool // 路由带 :id，要求 > 0
	Status  int  // 成功状态码，默认 200
	Guards  []gin.HandlerFunc
	Handler func(c *gin.Context, in *I) (O, error)
}

const keyPathID = "ez.pathID"

// ID 取已校验的路由 id
func ID(c *gin.Context) int { return c.GetInt(keyPathID) }

func parsePathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, Invalid([]string{"id must be a positive integer"})
	}
	return id, nil
}

// WriteError 把任意错误写成信封
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = Internal("", err).(*AErr)
	}
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		l.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("errCode", ae.Code),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(ae.Status, resp.Fail(ae.Status, ae.Code, ae.Error(), ae.Details))
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.PathID {
			id, err := parsePathID(c)
			if err != nil {
				WriteError(c, e.log, err)
				return
			}
			c.Set(keyPathID, id)
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			WriteError(c, e.log, Invalid(FieldErrors(bindErr)))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Guards...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}
