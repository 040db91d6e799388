package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxImageBytes bounds a single proof image
const MaxImageBytes = 10 << 20

// Verifier decides whether an image plausibly shows the habit being done
type Verifier interface {
	Verify(ctx context.Context, imageURL, title, description string) (bool, error)
}

// ImageStore persists image bytes and returns a public URL
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Image is a decoded upload
type Image struct {
	ContentType string
	Data        []byte
	Err         error // Decode failure, reported by the gate after membership checks
}

var dataURLPattern = regexp.MustCompile(`^data:([^;,]+);base64,(.*)$`)

// ParseDataURL decodes a base64 data URL. A bare base64 payload (or one after
// an unrecognised header) is accepted as JPEG.
func ParseDataURL(raw string) (Image, error) {
	raw = strings.TrimSpace(raw)
	contentType, payload := "image/jpeg", raw
	if m := dataURLPattern.FindStringSubmatch(raw); m != nil {
		contentType, payload = m[1], m[2]
	} else if i := strings.LastIndex(raw, ","); i >= 0 {
		payload = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img := Image{ContentType: contentType, Data: data}
	return img, img.validate()
}

func (img Image) validate() error {
	switch {
	case img.Err != nil:
		return img.Err
	case len(img.Data) == 0:
		return fmt.Errorf("%w: empty image", ErrInvalidImage)
	case len(img.Data) > MaxImageBytes:
		return fmt.Errorf("%w: image larger than %d bytes", ErrInvalidImage, MaxImageBytes)
	case !strings.HasPrefix(img.ContentType, "image/"):
		return fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, img.ContentType)
	}
	return nil
}

// DataURL re-encodes the image for the verifier
func (img Image) DataURL() string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ExtFor maps a content type to a file extension
func ExtFor(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "webp"):
		return "webp"
	case strings.Contains(ct, "heic"), strings.Contains(ct, "heif"):
		return "heic"
	case strings.Contains(ct, "gif"):
		return "gif"
	}
	return "jpg"
}

func objectKey(prefix string, ownerID, parentID uint, contentType string) string {
	return fmt.Sprintf("%s/%d/%d/%s.%s", prefix, ownerID, parentID, uuid.NewString(), ExtFor(contentType))
}

// verifyImage rejects the image unless the verifier accepts it. Verifier
// errors reject too.
func verifyImage(ctx context.Context, v Verifier, img Image, title, description string) error {
	if v == nil {
		return nil
	}
	ok, err := v.Verify(ctx, img.DataURL(), title, description)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"title": title,
			"error": err.Error(),
		}).Warn("Image verification errored")
		return fmt.Errorf("%w: %v", ErrVerificationRejected, err)
	}
	if !ok {
		return ErrVerificationRejected
	}
	return nil
}

func storeImage(ctx context.Context, store ImageStore, key string, img Image) (string, error) {
	url, err := store.Put(ctx, key, img.ContentType, img.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return url, nil
}
