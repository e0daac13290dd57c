package storage

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"kay-social/internal/domain"
)

// MaxImageBytes bounds a decoded profile image.
const MaxImageBytes = 5 << 20

// DecodeImage decodes a base64 image, optionally wrapped in a data URL
// ("data:image/png;base64,...."). The payload must sniff as an image/* type.
// All failures match domain.ErrInvalidImage.
func DecodeImage(encoded string) (Image, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		i := strings.IndexByte(payload, ',')
		if i < 0 {
			return Image{}, fmt.Errorf("%w: data url without payload", domain.ErrInvalidImage)
		}
		payload = payload[i+1:]
	}
	if payload == "" {
		return Image{}, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}
	if base64.RawStdEncoding.DecodedLen(len(strings.TrimRight(payload, "="))) > MaxImageBytes {
		return Image{}, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidImage, MaxImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return Image{}, fmt.Errorf("%w: not base64", domain.ErrInvalidImage)
	}
	return SniffImage(data)
}

// SniffImage checks raw bytes and detects their content type.
func SniffImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}
	if len(data) > MaxImageBytes {
		return Image{}, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidImage, MaxImageBytes)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: unsupported content type %s", domain.ErrInvalidImage, mt.String())
	}
	return Image{Data: data, ContentType: mt.String()}, nil
}
