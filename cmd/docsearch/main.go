// Package main is the entry point for the DocSearch service.
//
//	@title			DocSearch API
//	@version		1.0
//	@description	文档检索服务 - 上传 PDF/DOCX/TXT，分块向量化后进行语义检索与抽取式问答
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:8000
//	@BasePath		/
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/Shreeshail-sp/docsearch/cmd/docsearch/app"
)

func main() {
	app.NewApp().Run()
}
