package response

// 常见系统级错误码（直接基于 HTTP 语义）
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooLarge        = 413
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeUnavailable     = 503
	CodeTimeout         = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeTooLarge:        "Request Entity Too Large",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeUnavailable:     "Service Unavailable",
	CodeTimeout:         "Gateway Timeout",
}

// 业务错误码，客户端按 errCode 区分同一 HTTP 状态下的不同失败
const (
	ErrCodeAvatarPersist    = "05X00"
	ErrCodeInternal         = "05X04"
	ErrCodeOldPassword      = "05X11"
	ErrCodeConfirmMismatch  = "05X12"
	ErrCodeValidation       = "05X20"
	ErrCodeConflict         = "05X97"
	ErrCodePasswordMismatch = "05X98"
	ErrCodeDuplicateEmail   = "05X99"
)
