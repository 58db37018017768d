//go:build !mobile

// Package mobile 的桌面端占位
//
// 不带 -tags mobile 时 mobile.go 与 embed.go 都不参与编译（embed.go 依赖
// 复制到本目录的 data/），这里只保留导出的 Dummy，
// 让 go build ./... 和 go vet ./... 在桌面端也能通过。
package mobile

// Dummy 与 mobile.go 中的同名函数对应，桌面端不做任何事
func Dummy() {}
