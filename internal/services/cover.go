package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/pianostudio-backend/internal/pkg/dbctx"
	"github.com/yungbote/pianostudio-backend/internal/platform/gcp"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

const (
	coverWidth  = 1280
	coverHeight = 720
)

// CoverService draws title cards for items uploaded without a thumbnail.
type CoverService interface {
	Render(title, subtitle string) (bytes.Buffer, error)
	// CreateAndUpload renders a card, stores it under thumbnails/ and returns its public URL.
	CreateAndUpload(ctx context.Context, title, subtitle string) (string, error)
}

type coverService struct {
	log    *logger.Logger
	bucket gcp.BucketService

	titleFace font.Face
	smallFace font.Face
	palette   []color.NRGBA
}

func NewCoverService(log *logger.Logger, bucket gcp.BucketService) (CoverService, error) {
	titleFace, err := loadFontFace(gobold.TTF, 76)
	if err != nil {
		return nil, fmt.Errorf("load title font: %w", err)
	}
	smallFace, err := loadFontFace(goregular.TTF, 38)
	if err != nil {
		return nil, fmt.Errorf("load subtitle font: %w", err)
	}
	return &coverService{
		log:       log.With("service", "CoverService"),
		bucket:    bucket,
		titleFace: titleFace,
		smallFace: smallFace,
		palette: []color.NRGBA{
			{R: 0x1F, G: 0x2A, B: 0x44, A: 0xFF},
			{R: 0x3D, G: 0x2C, B: 0x4E, A: 0xFF},
			{R: 0x2E, G: 0x4A, B: 0x3F, A: 0xFF},
			{R: 0x5A, G: 0x2E, B: 0x2E, A: 0xFF},
			{R: 0x2B, G: 0x3A, B: 0x55, A: 0xFF},
		},
	}, nil
}

func (cs *coverService) Render(title, subtitle string) (bytes.Buffer, error) {
	var buf bytes.Buffer
	title = strings.TrimSpace(title)
	if title == "" {
		return buf, fmt.Errorf("title required")
	}

	dc := gg.NewContext(coverWidth, coverHeight)
	dc.SetColor(cs.pickColor(title))
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	// keyboard strip along the bottom edge
	keyW := float64(coverWidth) / 26
	stripY := float64(coverHeight) - 120
	dc.SetColor(color.NRGBA{R: 0xF5, G: 0xF2, B: 0xEA, A: 0xFF})
	dc.DrawRectangle(0, stripY, coverWidth, 120)
	dc.Fill()
	dc.SetColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF})
	for i := 0; i < 26; i++ {
		x := float64(i) * keyW
		dc.DrawLine(x, stripY, x, coverHeight)
		dc.SetLineWidth(2)
		dc.Stroke()
		if n := i % 7; n != 2 && n != 6 {
			dc.DrawRectangle(x+keyW*0.65, stripY, keyW*0.7, 72)
			dc.Fill()
		}
	}

	dc.SetColor(color.White)
	dc.SetFontFace(cs.titleFace)
	dc.DrawStringWrapped(title, coverWidth/2, (stripY/2)-30, 0.5, 0.5, coverWidth-160, 1.2, gg.AlignCenter)

	if subtitle = strings.TrimSpace(subtitle); subtitle != "" {
		dc.SetFontFace(cs.smallFace)
		dc.SetColor(color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF})
		dc.DrawStringAnchored(strings.ToUpper(subtitle), coverWidth/2, stripY-60, 0.5, 0.5)
	}

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (cs *coverService) CreateAndUpload(ctx context.Context, title, subtitle string) (string, error) {
	buf, err := cs.Render(title, subtitle)
	if err != nil {
		return "", err
	}
	suffix, err := randomHex(8)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("thumbnails/%d-%s.png", time.Now().UTC().UnixMilli(), suffix)
	if err := cs.bucket.UploadFile(dbctx.Context{Ctx: ctx}, key, bytes.NewReader(buf.Bytes()), "image/png"); err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	cs.log.Debug("cover uploaded", "path", key)
	return cs.bucket.GetPublicURL(key), nil
}

// pickColor is stable per title so re-renders produce the same card.
func (cs *coverService) pickColor(title string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(title)))
	return cs.palette[int(h.Sum32()%uint32(len(cs.palette)))]
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
