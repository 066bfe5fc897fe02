package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"auctioneer/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPhotoSize is the largest file LoadPhoto accepts.
const MaxPhotoSize = 20 << 20

// PhotoTypes are the image formats the server stores.
var PhotoTypes = []string{"image/png", "image/jpeg", "image/gif"}

var ErrUnsupportedPhoto = errors.New("photo must be a PNG, JPEG or GIF image")

// LoadPhoto reads an image from disk for upload. The content type is
// sniffed from the bytes, not taken from the extension.
func LoadPhoto(path string) (*model.Photo, error) {
	path = expandHome(strings.TrimSpace(path))
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	if info.Size() > MaxPhotoSize {
		return nil, fmt.Errorf("photo is larger than %d MB", MaxPhotoSize>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range PhotoTypes {
		if mtype.Is(allowed) {
			return &model.Photo{ContentType: allowed, Data: data}, nil
		}
	}
	return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedPhoto, mtype.String())
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
