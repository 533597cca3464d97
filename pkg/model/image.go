package model

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// NewImage sniffs the media type of data and rejects anything a vision
// model will not accept. Empty data yields a nil image.
func NewImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, nil
	}
	mediaType := http.DetectContentType(data)
	if !supportedImageTypes[mediaType] {
		return nil, fmt.Errorf("%w %s", ErrUnsupportedImage, mediaType)
	}
	return &Image{Data: data, MediaType: mediaType}, nil
}
