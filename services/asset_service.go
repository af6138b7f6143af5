package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"unicode"

	"restaurant-directory/helper"
	"restaurant-directory/media"
	"restaurant-directory/models"
	"restaurant-directory/storage"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

const defaultUploadConcurrency = 4

// AssetService turns the inputs of one asset slot into stored URLs.
type AssetService interface {
	StoreAssets(ctx context.Context, slot models.AssetSlot, inputs []models.AssetInput, entityName string) ([]string, error)
	// CheckExistingURLs rejects re-submitted URLs the blob store did not issue.
	CheckExistingURLs(slot models.AssetSlot, inputs []models.AssetInput) error
}

type assetService struct {
	store       storage.BlobStore
	normalizer  *media.Normalizer
	concurrency int
	newToken    func() string
	logger      *slog.Logger
}

func NewAssetService(store storage.BlobStore, normalizer *media.Normalizer, concurrency int, logger *slog.Logger) AssetService {
	if concurrency <= 0 {
		concurrency = defaultUploadConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &assetService{
		store:       store,
		normalizer:  normalizer,
		concurrency: concurrency,
		newToken:    helper.NewAssetToken,
		logger:      logger,
	}
}

func (s *assetService) StoreAssets(ctx context.Context, slot models.AssetSlot, inputs []models.AssetInput, entityName string) ([]string, error) {
	if err := s.CheckExistingURLs(slot, inputs); err != nil {
		return nil, err
	}

	urls := make([]string, len(inputs))
	keep := make([]bool, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, input := range inputs {
		switch in := input.(type) {
		case models.ExistingURL:
			if in != "" {
				urls[i], keep[i] = string(in), true
			}
		case models.NewUpload:
			if in.Filename == "" {
				continue
			}
			keep[i] = true
			i := i
			g.Go(func() error {
				url, err := s.upload(gctx, slot, in, entityName)
				if err != nil {
					return err
				}
				urls[i] = url
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(inputs))
	for i, url := range urls {
		if keep[i] {
			out = append(out, url)
		}
	}
	return out, nil
}

func (s *assetService) CheckExistingURLs(slot models.AssetSlot, inputs []models.AssetInput) error {
	for _, input := range inputs {
		url, ok := input.(models.ExistingURL)
		if !ok || url == "" || s.store.Owns(string(url)) {
			continue
		}
		return &models.ErrorValidation{
			Message: fmt.Sprintf("%s contains a URL not issued by this store", slot),
			Fields:  map[string][]string{string(slot): {fmt.Sprintf("unknown asset URL %s", url)}},
		}
	}
	return nil
}

func (s *assetService) upload(ctx context.Context, slot models.AssetSlot, file models.NewUpload, entityName string) (string, error) {
	ext := sanitizeExt(filepath.Ext(file.Filename))
	contentType := mime.TypeByExtension(ext)
	data := file.Content

	if isRasterImage(contentType) {
		data = s.normalizer.Normalize(data)
		ext = media.CanonicalExt
		contentType = media.CanonicalContentType
	} else if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	key := s.objectKey(slot, entityName, ext)
	url, err := s.store.Put(ctx, data, key, contentType)
	if err != nil {
		s.logger.Error("asset upload failed", "slot", slot, "key", key, "error", err)
		return "", err
	}
	s.logger.Debug("asset uploaded", "slot", slot, "url", url, "bytes", len(data))
	return url, nil
}

func (s *assetService) objectKey(slot models.AssetSlot, entityName, ext string) string {
	parts := []string{"restaurants"}
	if entity := SanitizeEntityName(entityName); entity != "" {
		parts = append(parts, entity)
	}
	parts = append(parts, slot.Folder(), s.newToken()+ext)
	return strings.Join(parts, "/")
}

// SanitizeEntityName drops every non-alphanumeric rune and lower-cases the rest.
func SanitizeEntityName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	var sb strings.Builder
	for _, r := range ext {
		if r == '.' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() <= 1 {
		return ""
	}
	return sb.String()
}

// isRasterImage excludes SVG, which the normalizer cannot decode.
func isRasterImage(contentType string) bool {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	return strings.HasPrefix(mediaType, "image/") && mediaType != "image/svg+xml"
}
