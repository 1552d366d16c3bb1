package validation

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	thumbnailWidth = 320
	// maxProofPixels bounds the decoded size; the upload limit only caps
	// the compressed bytes.
	maxProofPixels = 40_000_000
)

var ErrNoThumbnail = errors.New("bukti transfer bukan gambar")

// Thumbnail renders a small JPEG of an image proof. PDF proofs and proofs
// stored as links have no thumbnail.
func (s *Service) Thumbnail(ctx context.Context, id string) ([]byte, error) {
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return thumbnail(detail.Payment.BuktiTransfer)
}

func thumbnail(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNoThumbnail
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode proof failed: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode proof image failed: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxProofPixels {
		return nil, ErrNoThumbnail
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode proof image failed: %w", err)
	}
	if img.Bounds().Dx() > thumbnailWidth {
		img = imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode thumbnail failed: %w", err)
	}
	return buf.Bytes(), nil
}
