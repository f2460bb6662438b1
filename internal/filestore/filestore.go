package filestore

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edukaster/internal/domain"

	"github.com/google/uuid"
)

const (
	MaxFileSize   = 50 * 1024 * 1024 // 50 MB
	staticURLBase = "/static/uploads"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrInvalidMimeType = errors.New("file type is not allowed")
)

// allowedMimeTypes covers the attachments students send with a booking
// request: course material, assignments and the occasional screenshot.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/zip": true,
	"text/plain":      true,
}

// Store writes booking attachments to local disk under dated
// subdirectories and hands back the metadata the booking keeps.
type Store struct {
	baseDir    string
	staticBase string
	now        func() time.Time
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &Store{baseDir: baseDir, staticBase: staticURLBase, now: time.Now}
}

// Save persists the uploaded file and returns its stored metadata. The
// caller embeds the result in the booking; nothing else references the
// file, so there is no separate DB record.
func (s *Store) Save(fileHeader *multipart.FileHeader) (domain.UploadedFile, error) {
	var none domain.UploadedFile

	if fileHeader.Size == 0 {
		return none, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return none, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return none, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !allowedMimeTypes[mimeType] {
		return none, ErrInvalidMimeType
	}
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return none, fmt.Errorf("create upload directory: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(fileHeader.Filename), ext)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return none, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return none, fmt.Errorf("write file: %w", err)
	}

	relPath := filepath.Join(relDir, filename)
	return domain.UploadedFile{
		Filename:     filename,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		URL:          s.staticBase + "/" + strings.ReplaceAll(relPath, "\\", "/"),
	}, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	case "application/zip":
		return ".zip"
	case "text/plain":
		return ".txt"
	default:
		return ".bin"
	}
}
