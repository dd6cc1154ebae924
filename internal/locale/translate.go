package locale

import "fmt"

// Pick returns the text matching the request language, defaulting to Chinese.
func Pick(language, english, chinese string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		if english != "" {
			return english
		}
		return chinese
	}
	if chinese != "" {
		return chinese
	}
	return english
}

// 消息键
const (
	MsgInvalidRequest     = "invalid_request"
	MsgValidation         = "validation"
	MsgAuthRequired       = "auth_required"
	MsgForbidden          = "forbidden"
	MsgNotFound           = "not_found"
	MsgCategoryProtected  = "category_protected"
	MsgCategoryExists     = "category_exists"
	MsgCategoryNotFound   = "category_not_found"
	MsgUploadFailed       = "upload_failed"
	MsgImageRequired      = "image_required"
	MsgPermissionDenied   = "permission_denied"
	MsgInternal           = "internal"
	MsgInvalidCredentials = "invalid_credentials"
	MsgRoleUnavailable    = "role_unavailable"
	MsgSessionSaveFailed  = "session_save_failed"
	MsgSaved              = "saved"
	MsgDeleted            = "deleted"
	MsgLoggedOut          = "logged_out"
	MsgUploaded           = "uploaded"
)

var catalog = map[string]struct{ zh, en string }{
	MsgInvalidRequest:     {"请求参数无效", "Invalid request"},
	MsgValidation:         {"字段 %s 缺失或无效", "Field %s is missing or invalid"},
	MsgAuthRequired:       {"请先登录", "Please sign in first"},
	MsgForbidden:          {"需要管理员权限", "Admin role required"},
	MsgNotFound:           {"内容不存在", "Not found"},
	MsgCategoryProtected:  {"“全部”分类不能删除", `The "all" category cannot be removed`},
	MsgCategoryExists:     {"已存在相同 ID 的分类", "A category with this ID already exists"},
	MsgCategoryNotFound:   {"分类不存在", "Category not found"},
	MsgUploadFailed:       {"图片上传失败，请稍后重试", "Image upload failed, please try again"},
	MsgImageRequired:      {"请选择要上传的图片", "Please choose an image to upload"},
	MsgPermissionDenied:   {"没有权限执行该操作，请确认已登录", "You must be authenticated to perform this action"},
	MsgInternal:           {"服务器内部错误", "Internal server error"},
	MsgInvalidCredentials: {"邮箱或密码错误", "Invalid email or password"},
	MsgRoleUnavailable:    {"无法确认账号角色，请稍后再试", "Could not resolve the account role, please try again later"},
	MsgSessionSaveFailed:  {"会话保存失败", "Failed to save the session"},
	MsgSaved:              {"保存成功", "Saved"},
	MsgDeleted:            {"已删除", "Deleted"},
	MsgLoggedOut:          {"已退出登录", "Signed out"},
	MsgUploaded:           {"上传成功", "Uploaded"},
}

// Message 返回指定语言的消息，args 用于格式化；未知键原样返回。
func Message(language, key string, args ...any) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	text := Pick(language, entry.en, entry.zh)
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
