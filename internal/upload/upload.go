package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrDisallowedExtension = errors.New("file extension not allowed")

// allowedExtensions is the POD/profile photo whitelist.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Saver writes uploaded photos into the public upload directory and hands
// back the URL path the row should reference.
type Saver struct {
	dir      string
	basePath string
}

func NewSaver(dir, basePath string) *Saver {
	return &Saver{
		dir:      dir,
		basePath: strings.TrimRight(basePath, "/"),
	}
}

// Allowed reports whether the filename carries a whitelisted extension.
func Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	if ext == "" {
		return false
	}

	_, ok := allowedExtensions[ext]

	return ok
}

// SanitizeFilename strips path components and anything outside
// [A-Za-z0-9_.-] so the name is safe to join into the upload dir.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name == "" {
		name = "file"
	}

	return name
}

// SavePOD stores a proof-of-delivery photo as pod_<jobID>_<name>.
func (s *Saver) SavePOD(file *multipart.FileHeader, jobID string) (string, error) {
	return s.save(file, fmt.Sprintf("pod_%s_%s", jobID, SanitizeFilename(file.Filename)))
}

// SaveDriverPhoto stores a profile photo as driver_<username>_<name>.
func (s *Saver) SaveDriverPhoto(file *multipart.FileHeader, username string) (string, error) {
	return s.save(file, fmt.Sprintf("driver_%s_%s", SanitizeFilename(username), SanitizeFilename(file.Filename)))
}

func (s *Saver) save(file *multipart.FileHeader, name string) (string, error) {
	if !Allowed(file.Filename) {
		return "", ErrDisallowedExtension
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()

	if err != nil {
		return "", err
	}
	defer src.Close()

	// same name overwrites the previous upload, uniqueness rides on the id
	dst, err := os.Create(filepath.Join(s.dir, name))

	if err != nil {
		return "", err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)

	if err != nil {
		return "", err
	}

	return s.basePath + "/" + name, nil
}
