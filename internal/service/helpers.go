package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// normalizeEmail 邮箱统一小写、去空白
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optString 去除首尾空白，空串视为 NULL
func optString(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// patchString 请求字段非 nil 时覆盖目标；空串清空为 NULL
func patchString(dst **string, src *string) {
	if src != nil {
		*dst = optString(src)
	}
}

// hashPassword bcrypt 哈希
func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
