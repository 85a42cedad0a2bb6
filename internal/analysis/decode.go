package analysis

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// ErrBeatsUnavailable is returned by TrackBeats when no beat tracking
// provider is configured.
var ErrBeatsUnavailable = errors.New("beat tracking unavailable")

// DecodeFrame decodes a base64 image payload, optionally carrying a data-URL
// prefix, into an OpenCV matrix. The caller owns the returned Mat and must
// Close it.
func DecodeFrame(data string) (*gocv.Mat, error) {
	// Strip a data URL prefix ("data:image/jpeg;base64,...") if present.
	if idx := strings.IndexByte(data, ','); idx >= 0 {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}

	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("decode image: empty frame")
	}

	return &mat, nil
}

// DecodeImage decodes raw image bytes (an uploaded file) into an OpenCV
// matrix. The caller owns the returned Mat and must Close it.
func DecodeImage(raw []byte) (*gocv.Mat, error) {
	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("decode image: empty frame")
	}
	return &mat, nil
}
