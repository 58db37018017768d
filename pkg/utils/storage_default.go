//go:build !android

package utils

// EnsureStorageDir 在打开设置存储前调用
// 桌面平台上 gdata 会自行创建目录，这里什么都不做
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 桌面平台返回空字符串（路径由 gdata 决定）
func GetStoragePath() string {
	return ""
}
