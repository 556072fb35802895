package synth

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

// syntheticImage renders a deterministic placeholder PNG seeded from the
// prompt. It keeps the rest of the pipeline (claiming, uploads, metadata,
// status writes) exercised when no inference server is configured.
func (c *Client) syntheticImage(req Request) *Image {
	width, height := req.Width, req.Height
	if width <= 0 {
		width = 256
	}
	if height <= 0 {
		height = 256
	}

	seed := sha256.Sum256([]byte(req.Prompt + "\x00" + req.RequestID))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var cell [10]byte
			copy(cell[:], seed[:])
			binary.BigEndian.PutUint32(cell[2:], uint32(x/16))
			binary.BigEndian.PutUint32(cell[6:], uint32(y/16))
			h := sha256.Sum256(cell[:])
			img.SetRGBA(x, y, color.RGBA{R: h[0], G: h[1], B: h[2], A: 0xff})
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Msg("synth: generated synthetic image")

	return &Image{
		Data:      buf.Bytes(),
		Format:    "image/png",
		Width:     width,
		Height:    height,
		ModelUsed: c.model,
	}
}
