// Package classifier сопоставляет расширение файла с папкой категории.
package classifier

import (
	"sort"
	"strings"
)

// extensionMap единственный источник правды: ключи являются списком
// разрешённых расширений, значения задают относительный путь категории.
var extensionMap = map[string]string{
	"png":  "imagens/png",
	"jpg":  "imagens/jpg_jpeg",
	"jpeg": "imagens/jpg_jpeg",
	"gif":  "imagens/gif",
	"webp": "imagens/webp",
	"svg":  "imagens/vetoriais",
	"docx": "documentos/word",
	"doc":  "documentos/word",
	"xlsx": "documentos/excel",
	"xls":  "documentos/excel",
	"pptx": "documentos/powerpoint",
	"ppt":  "documentos/powerpoint",
	"pdf":  "documentos/pdf",
	"txt":  "documentos/texto",
	"mp3":  "multimedia/audio",
	"wav":  "multimedia/audio",
	"mp4":  "multimedia/video",
	"zip":  "compactados",
	"rar":  "compactados",
	"gz":   "compactados",
}

// Extension возвращает часть имени после последней точки в нижнем регистре.
// ok=false, если точки нет.
func Extension(filename string) (string, bool) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return "", false
	}
	return strings.ToLower(filename[i+1:]), true
}

// Classify возвращает путь категории (через "/") для имени файла.
// Файлы без расширения и с неизвестным расширением отклоняются.
func Classify(filename string) (string, bool) {
	ext, ok := Extension(filename)
	if !ok || ext == "" {
		return "", false
	}
	category, ok := extensionMap[ext]
	return category, ok
}

// Extensions отсортированный список разрешённых расширений.
func Extensions() []string {
	out := make([]string, 0, len(extensionMap))
	for ext := range extensionMap {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
