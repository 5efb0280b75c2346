package response

type Resp struct {
	Code    int      `json:"code"`
	Msg     string   `json:"msg"`
	ErrCode string   `json:"errCode,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Data    any      `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, nil)
}

// Fail 带业务错误码与字段级错误
func Fail(code int, errCode, msg string, errs []string) Resp {
	r := Error(code, msg)
	r.ErrCode = errCode
	r.Errors = errs
	return r
}
