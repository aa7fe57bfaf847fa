package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/pkg/cache"
	pkglogger "github.com/reindeer-letter/letter-backend/pkg/logger"
	"github.com/reindeer-letter/letter-backend/pkg/storage"
)

const (
	maxImageSize = 5 * 1024 * 1024
	maxVoiceSize = 10 * 1024 * 1024

	bgmPrefix = "bgm/"
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	voiceExtensions = map[string]bool{".mp3": true, ".wav": true, ".m4a": true, ".mp4": true}
)

// Bgm is one background-music entry from the bgm listing
type Bgm struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MediaService uploads letter media to object storage and lists bgm tracks
type MediaService interface {
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error)
	UploadVoice(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error)
	ListBgm(ctx context.Context) ([]Bgm, error)
}

type mediaService struct {
	store *storage.S3Client
	cache cache.Service
}

// NewMediaService creates a new MediaService
func NewMediaService(store *storage.S3Client, cacheService cache.Service) MediaService {
	return &mediaService{store: store, cache: cacheService}
}

// UploadImage stores a letter image (jpg/jpeg/png, max 5MB)
func (s *mediaService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	if size > maxImageSize {
		return nil, fmt.Errorf("%w: 이미지는 5MB 이하만 업로드할 수 있습니다", common.ErrInvalidInput)
	}
	ext := strings.ToLower(path.Ext(filename))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("%w: 지원하지 않는 이미지 형식입니다", common.ErrInvalidInput)
	}

	key := storage.GenerateKey("images", filename)
	result, err := s.store.Upload(ctx, key, body, contentType, size)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return result, nil
}

// UploadVoice stores a voice recording (mp3/wav/m4a/mp4, max 10MB)
func (s *mediaService) UploadVoice(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	if size > maxVoiceSize {
		return nil, fmt.Errorf("%w: 음성 파일은 10MB 이하만 업로드할 수 있습니다", common.ErrInvalidInput)
	}
	ext := strings.ToLower(path.Ext(filename))
	if !voiceExtensions[ext] {
		return nil, fmt.Errorf("%w: 지원하지 않는 음성 파일 형식입니다", common.ErrInvalidInput)
	}

	key := storage.GenerateKey("voices", filename)
	result, err := s.store.Upload(ctx, key, body, contentType, size)
	if err != nil {
		return nil, fmt.Errorf("upload voice: %w", err)
	}
	return result, nil
}

// ListBgm returns the bgm tracks stored under bgm/, cached in Redis
func (s *mediaService) ListBgm(ctx context.Context) ([]Bgm, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		var cached []Bgm
		if err := s.cache.GetBgmList(ctx, &cached); err == nil {
			return cached, nil
		}
	}

	objects, err := s.store.List(ctx, bgmPrefix)
	if err != nil {
		return nil, fmt.Errorf("list bgm: %w", err)
	}

	bgms := make([]Bgm, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, bgmPrefix)
		if name == "" {
			continue
		}
		// CDN URL when configured, raw bucket URL otherwise
		bgms = append(bgms, Bgm{Name: name, URL: s.store.GetCDNURL(obj.Key)})
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetBgmList(ctx, bgms); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("bgm list cache write failed")
		}
	}

	return bgms, nil
}
