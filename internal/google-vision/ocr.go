package googlevision

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"docverify/internal/ocr"
)

// Client runs text detection against Google Cloud Vision.
type Client struct {
	annotator *vision.ImageAnnotatorClient
	timeout   time.Duration
}

// New connects to Vision. An empty credPath falls back to application
// default credentials (GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
func New(ctx context.Context, credPath string, timeout time.Duration) (*Client, error) {
	var (
		annotator *vision.ImageAnnotatorClient
		err       error
	)
	if credPath != "" {
		annotator, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credPath))
	} else {
		annotator, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to init vision client: %w", err)
	}
	log.Info().Bool("credentials_file", credPath != "").Msg("vision OCR client ready")
	return &Client{annotator: annotator, timeout: timeout}, nil
}

// DetectText returns the lines of the first (full-page) annotation. Images
// without any text produce an empty slice.
func (c *Client) DetectText(ctx context.Context, image []byte) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	anns, err := c.annotator.DetectTexts(ctx, &visionpb.Image{Content: image}, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("vision text detection failed: %w", err)
	}
	if len(anns) == 0 || anns[0] == nil {
		return nil, nil
	}
	return ocr.SplitLines(anns[0].Description), nil
}

func (c *Client) Close() error {
	return c.annotator.Close()
}

var _ ocr.Detector = (*Client)(nil)
