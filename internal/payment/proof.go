package payment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxProofSize = 5 << 20

var (
	ErrProofTooLarge = errors.New("ukuran file maksimal 5MB")
	ErrProofType     = errors.New("format file harus JPG, PNG, GIF, atau PDF")
	ErrProofRequired = errors.New("bukti transfer wajib diupload")
)

var allowedProofTypes = []string{"image/jpeg", "image/png", "image/gif", "application/pdf"}

// Proof is an uploaded transfer proof ready to be sent as a data URL.
type Proof struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	DataURL     string `json:"-"`
}

// ReadProof checks size and content type before anything leaves the
// process. The content type is sniffed from the bytes, not taken from the
// file name or the client header.
func ReadProof(r io.Reader, name string) (*Proof, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxProofSize+1))
	if err != nil {
		return nil, fmt.Errorf("read proof failed: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrProofRequired
	}
	if len(data) > MaxProofSize {
		return nil, ErrProofTooLarge
	}

	mt := mimetype.Detect(data)
	allowed := false
	for _, t := range allowedProofTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrProofType
	}

	ct, _, _ := strings.Cut(mt.String(), ";")
	return &Proof{
		Name:        name,
		ContentType: ct,
		Size:        len(data),
		DataURL:     "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
