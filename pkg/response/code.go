package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 账号/认证错误 100xx
	ErrDuplicateUsername  = 10001
	ErrDuplicateEmail     = 10002
	ErrUserNotFound       = 10003
	ErrInvalidCredentials = 10004
	ErrTokenInvalid       = 10005
	ErrNoPermission       = 10006
	ErrStateMismatch      = 10007

	// 社交关系错误 200xx
	ErrSelfFollow = 20001

	// 内容模块错误 300xx
	ErrPostNotFound    = 30001
	ErrCommentNotFound = 30002

	// 私信模块错误 400xx
	ErrReceiverNotFound = 40001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
