// Package pixoo implements the Pixoo64 protocol.
//
// The Pixoo64 has a local HTTP API at port 80.
// Endpoint: POST http://<ip>/post
//
// Frame format:
// - 64x64 pixels, top row first
// - RGB (3 bytes per pixel, no alpha)
// - Base64 encoded
// - Total: 64 * 64 * 3 = 12,288 bytes raw, ~16KB base64
//
// The device ignores a frame whose PicID is not greater than the last one it
// drew, so senders count up from a Draw/ResetHttpGifId.
package pixoo

import (
	"encoding/base64"
	"fmt"

	"github.com/jwulff/countdown-go/internal/domain"
)

// PixooCommand represents a Pixoo API command.
type PixooCommand struct {
	Command string `json:"Command"`
}

// FrameCommand represents a Draw/SendHttpGif command.
type FrameCommand struct {
	Command   string `json:"Command"`
	PicNum    int    `json:"PicNum"`
	PicWidth  int    `json:"PicWidth"`
	PicOffset int    `json:"PicOffset"`
	PicID     int    `json:"PicID"`
	PicSpeed  int    `json:"PicSpeed"`
	PicData   string `json:"PicData"`
}

// BrightnessCommand represents a Channel/SetBrightness command.
type BrightnessCommand struct {
	Command    string `json:"Command"`
	Brightness int    `json:"Brightness"`
}

// FrameCommandOptions configures frame command parameters.
type FrameCommandOptions struct {
	PicID int
	Speed int
}

// rgbBytesPerPixel is the wire size of one pixel.
const rgbBytesPerPixel = 3

// EncodeFrameToBase64 encodes frame pixels to base64 for Pixoo API.
// Alpha is dropped.
func EncodeFrameToBase64(frame *domain.Frame) string {
	return base64.StdEncoding.EncodeToString(frame.RGBBytes())
}

// DecodeBase64ToFrame decodes base64 to a frame.
func DecodeBase64ToFrame(encoded string, width, height int) (*domain.Frame, error) {
	pixels, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	expectedSize := width * height * rgbBytesPerPixel
	if len(pixels) != expectedSize {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", expectedSize, len(pixels))
	}

	frame := domain.NewFrame(width, height)
	for i := 0; i < width*height; i++ {
		p := pixels[i*rgbBytesPerPixel:]
		frame.SetPixel(i%width, i/width, domain.NewRGB(p[0], p[1], p[2]))
	}
	return frame, nil
}

// CreatePixooFrameCommand creates a Draw/SendHttpGif command.
func CreatePixooFrameCommand(frame *domain.Frame, opts *FrameCommandOptions) FrameCommand {
	picID := 1
	speed := 1000

	if opts != nil {
		if opts.PicID > 0 {
			picID = opts.PicID
		}
		if opts.Speed > 0 {
			speed = opts.Speed
		}
	}

	return FrameCommand{
		Command:   "Draw/SendHttpGif",
		PicNum:    1,
		PicWidth:  frame.Width,
		PicOffset: 0,
		PicID:     picID,
		PicSpeed:  speed,
		PicData:   EncodeFrameToBase64(frame),
	}
}

// CreateResetGifIDCommand creates a Draw/ResetHttpGifId command.
func CreateResetGifIDCommand() PixooCommand {
	return PixooCommand{
		Command: "Draw/ResetHttpGifId",
	}
}

// CreateDeviceTimeCommand creates a Device/GetDeviceTime command.
func CreateDeviceTimeCommand() PixooCommand {
	return PixooCommand{
		Command: "Device/GetDeviceTime",
	}
}

// CreateBrightnessCommand creates a Channel/SetBrightness command.
// The brightness is clamped to 0-100.
func CreateBrightnessCommand(brightness int) BrightnessCommand {
	return BrightnessCommand{
		Command:    "Channel/SetBrightness",
		Brightness: max(0, min(brightness, 100)),
	}
}
