package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只接受 72 字节以内的输入
const bcryptMaxBytes = 72

// bcryptInput 超长密码先做 SHA-256，再 base64 成 44 字节
func bcryptInput(pw string) []byte {
	if len(pw) <= bcryptMaxBytes {
		return []byte(pw)
	}
	sum := sha256.Sum256([]byte(pw))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword 生成 bcrypt 哈希（自带盐和 cost，校验时无需额外状态）
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(bcryptInput(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 哈希格式不合法时同样返回 false
func CheckPassword(pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), bcryptInput(pw)) == nil
}

var (
	reLower   = regexp.MustCompile(`[a-z]`)
	reUpper   = regexp.MustCompile(`[A-Z]`)
	reDigit   = regexp.MustCompile(`[0-9]`)
	reSpecial = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// StrongPassword 8-100 位，含大小写字母、数字、特殊字符
func StrongPassword(s string) bool {
	n := len([]rune(s))
	return n >= 8 && n <= 100 &&
		reLower.MatchString(s) && reUpper.MatchString(s) &&
		reDigit.MatchString(s) && reSpecial.MatchString(s)
}
