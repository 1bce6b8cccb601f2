// Package filetype maps file names and MIME types onto the coarse categories that pick a
// compression strategy.
package filetype

import (
	"math"
	"mime"
	"path"
	"strconv"
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

var extensions = map[types.FileType][]string{
	types.FileTypeImage:    {"jpg", "jpeg", "png", "gif", "webp", "bmp", "tiff", "svg", "ico", "heic", "avif"},
	types.FileTypeVideo:    {"mp4", "webm", "avi", "mov", "mkv", "flv", "wmv", "m4v", "3gp"},
	types.FileTypeAudio:    {"mp3", "wav", "ogg", "flac", "aac", "m4a", "wma"},
	types.FileTypeDocument: {"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "ods", "odp"},
	types.FileTypeText: {"txt", "md", "json", "xml", "csv", "html", "css", "js", "ts", "jsx", "tsx",
		"py", "java", "c", "cpp", "h", "hpp", "yaml", "yml", "toml", "ini", "cfg", "log"},
	types.FileTypeArchive: {"zip", "rar", "7z", "tar", "gz", "bz2", "xz"},
}

var byExtension = func() map[string]types.FileType {
	m := make(map[string]types.FileType)
	for ft, exts := range extensions {
		for _, ext := range exts {
			m[ext] = ft
		}
	}
	return m
}()

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	ext := path.Ext(strings.ToLower(strings.TrimSpace(name)))
	return strings.TrimPrefix(ext, ".")
}

// Detect classifies a file. Image, video and audio MIME prefixes win over an unknown
// extension; documents and archives are recognised by extension only.
func Detect(name, mimeType string) types.FileType {
	ext := Extension(name)
	ft, known := byExtension[ext]
	mt := strings.ToLower(mimeType)

	switch {
	case ft == types.FileTypeImage || strings.HasPrefix(mt, "image/"):
		return types.FileTypeImage
	case ft == types.FileTypeVideo || strings.HasPrefix(mt, "video/"):
		return types.FileTypeVideo
	case ft == types.FileTypeAudio || strings.HasPrefix(mt, "audio/"):
		return types.FileTypeAudio
	case ft == types.FileTypeDocument:
		return types.FileTypeDocument
	case ft == types.FileTypeText || strings.HasPrefix(mt, "text/"):
		return types.FileTypeText
	case known:
		return ft
	default:
		return types.FileTypeOther
	}
}

// MimeType guesses a MIME type from the extension of name, falling back to
// application/octet-stream.
func MimeType(name string) string {
	ext := Extension(name)
	if ext == "" {
		return "application/octet-stream"
	}
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n with binary units and at most two decimals, e.g. "1.5 KB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
