package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/pkg/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize is the largest accepted upload.
const MaxUploadSize = 10 << 20

const defaultFolder = "uploads"

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// sniffLen is the prefix http.DetectContentType looks at.
const sniffLen = 512

// uploadType is an accepted upload: the type the content must sniff as and the
// extension stored objects get.
type uploadType struct {
	sniffed string
	ext     string
}

// Images are accepted by content, whatever image/* subtype the client declares.
// SVG is not in the list: it can carry script and sniffs as text.
var imageTypes = map[string]uploadType{
	"image/png":  {"image/png", "png"},
	"image/jpeg": {"image/jpeg", "jpg"},
	"image/gif":  {"image/gif", "gif"},
	"image/webp": {"image/webp", "webp"},
	"image/bmp":  {"image/bmp", "bmp"},
}

// Attachments may also be office documents. Legacy office formats sniff as
// octet-stream and OOXML ones as zip.
var documentTypes = map[string]uploadType{
	"application/pdf":    {"application/pdf", "pdf"},
	"application/msword": {"application/octet-stream", "doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {"application/zip", "docx"},
	"application/vnd.ms-excel":                                                  {"application/octet-stream", "xls"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {"application/zip", "xlsx"},
	"application/vnd.ms-powerpoint":                                             {"application/octet-stream", "ppt"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {"application/zip", "pptx"},
	"text/plain": {"text/plain", "txt"},
}

// UploadService puts files into the blob store under generated keys.
type UploadService struct {
	store  BlobStore
	clock  clock.Clock
	newID  func() string
	logger *zap.Logger
}

func NewUploadService(store BlobStore, clk clock.Clock, logger *zap.Logger) *UploadService {
	return &UploadService{
		store:  store,
		clock:  clk,
		newID:  uuid.NewString,
		logger: logger.Named("upload_service"),
	}
}

// Upload stores body under folder/<unix-millis>_<uuid>.<ext> and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	if folder == "" {
		folder = defaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return "", e.Invalid("folder must be lower-case letters, digits, '-' or '_'")
	}
	if size <= 0 {
		return "", e.Invalid("file is required")
	}
	if size > MaxUploadSize {
		return "", e.Invalid("file must be at most %d MB", MaxUploadSize>>20)
	}
	contentType = mediaType(contentType)
	_, isDocument := documentTypes[contentType]
	if !strings.HasPrefix(contentType, "image/") && !isDocument {
		return "", e.Invalid("unsupported file type %q", contentType)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected, err := verifyContent(contentType, head)
	if err != nil {
		s.logger.Warn("Upload content rejected",
			zap.String("filename", filename),
			zap.String("declared_type", contentType),
			zap.String("detected_type", mediaType(http.DetectContentType(head))),
		)
		return "", err
	}

	storedType := contentType
	if strings.HasPrefix(contentType, "image/") {
		storedType = detected.sniffed
	}

	key := s.objectKey(folder, detected.ext)
	url, err := s.store.Put(ctx, key, storedType, io.MultiReader(bytes.NewReader(head), body), size)
	if err != nil {
		s.logger.Error("Upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %v", e.ErrUploadFailed, err)
	}
	s.logger.Info("File uploaded", zap.String("key", key), zap.Int64("size", size))
	return url, nil
}

// verifyContent checks the sniffed content against the declared type. Images
// must sniff as one of imageTypes, documents as their declared format.
func verifyContent(declared string, head []byte) (uploadType, error) {
	sniffed := mediaType(http.DetectContentType(head))
	if strings.HasPrefix(declared, "image/") {
		if t, ok := imageTypes[sniffed]; ok {
			return t, nil
		}
		return uploadType{}, e.Invalid("file type %q does not match its content", declared)
	}
	if t := documentTypes[declared]; t.sniffed == sniffed {
		return t, nil
	}
	return uploadType{}, e.Invalid("file type %q does not match its content", declared)
}

func mediaType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
}

func (s *UploadService) objectKey(folder, ext string) string {
	return fmt.Sprintf("%s/%d_%s.%s", folder, s.clock.Now().UnixMilli(), s.newID(), ext)
}
