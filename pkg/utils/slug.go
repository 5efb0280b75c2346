package utils

import "strings"

var (
	emailSlugger = strings.NewReplacer("@", "-", ".", "-")
	titleSlugger = strings.NewReplacer("@", "-", ".", "-", " ", "-")
)

// Slugify 小写并把 @ 和 . 替换成 -，重复调用结果不变
func Slugify(s string) string {
	return emailSlugger.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// TitleSlug 在 Slugify 基础上把空格也替换成 -
func TitleSlug(title string) string {
	return titleSlugger.Replace(strings.ToLower(strings.TrimSpace(title)))
}
