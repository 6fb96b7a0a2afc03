package web

import "embed"

// StaticFS 内嵌的后台管理页面
//
//go:embed index.html
var StaticFS embed.FS
