// Package upload validates and stores reclamation attachments.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowedMIMETypes lists the declared content types an attachment may
// carry: JPEG, PNG, PDF, DOC and DOCX.
var allowedMIMETypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Validator checks candidate attachments against the size and type
// policy and persists accepted ones under random names.
type Validator struct {
	dir          string
	publicPrefix string
	maxSize      int64
	logger       *zap.Logger
}

func NewValidator(dir, publicPrefix string, maxSize int64, logger *zap.Logger) (*Validator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Validator{
		dir:          dir,
		publicPrefix: publicPrefix,
		maxSize:      maxSize,
		logger:       logger,
	}, nil
}

// Validate checks the candidate without storing anything.
func (v *Validator) Validate(size int64, contentType string) error {
	if size > v.maxSize {
		return ErrFileTooLarge
	}
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// Store validates the attachment and, when accepted, writes it under
// a random 32-hex-character name with the original extension
// preserved. It returns the public reference path.
func (v *Validator) Store(fileHeader *multipart.FileHeader) (string, error) {
	if err := v.Validate(fileHeader.Size, fileHeader.Header.Get("Content-Type")); err != nil {
		return "", err
	}

	name, err := randomHex(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	filename := name + filepath.Ext(fileHeader.Filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(v.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	v.logger.Info("Attachment stored",
		zap.String("filename", filename),
		zap.Int64("size", fileHeader.Size))
	return v.publicPrefix + "/" + filename, nil
}

// Dir returns the directory accepted attachments are written to.
func (v *Validator) Dir() string {
	return v.dir
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
