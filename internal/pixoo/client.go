package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jwulff/countdown-go/internal/domain"
)

// DefaultPort is the default Pixoo HTTP API port.
const DefaultPort = 80

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 5 * time.Second

// DeviceError is a non-zero error_code in a device reply.
type DeviceError struct {
	Command string
	Code    int
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("pixoo %s: error code %d", e.Command, e.Code)
}

// DeviceTime is the clock reported by the device.
type DeviceTime struct {
	UTCTime   int64  `json:"UTCTime"`
	LocalTime string `json:"LocalTime"`
}

// UTC returns the device clock as a time.Time.
func (t DeviceTime) UTC() time.Time {
	return time.Unix(t.UTCTime, 0).UTC()
}

// Client talks to one Pixoo over its HTTP API and keeps the animation
// frame counter the device expects between pushes.
type Client struct {
	IP         string
	Port       int
	HTTPClient *http.Client
	testURL    string // For testing with httptest

	mu    sync.Mutex
	picID int
}

// NewClient creates a client for the device at ip on the default port.
func NewClient(ip string) *Client {
	return NewClientWithPort(ip, DefaultPort)
}

// NewClientWithPort creates a client for the device at ip:port.
func NewClientWithPort(ip string, port int) *Client {
	return &Client{
		IP:         ip,
		Port:       port,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Endpoint returns the full API endpoint URL.
func (c *Client) Endpoint() string {
	if c.testURL != "" {
		return c.testURL
	}
	return fmt.Sprintf("http://%s:%d/post", c.IP, c.Port)
}

// call posts command and decodes the reply into out, which may be nil. A
// reply with a non-zero error_code is returned as *DeviceError.
func (c *Client) call(ctx context.Context, name string, command, out any) error {
	data, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s reply: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d: %s", name, resp.StatusCode, bytes.TrimSpace(body))
	}

	var status struct {
		ErrorCode int `json:"error_code"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("decode %s reply: %w", name, err)
	}
	if status.ErrorCode != 0 {
		return &DeviceError{Command: name, Code: status.ErrorCode}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s reply: %w", name, err)
		}
	}
	return nil
}

// SendFrame shows a single frame.
func (c *Client) SendFrame(ctx context.Context, frame *domain.Frame) error {
	return c.SendFrameWithOptions(ctx, frame, nil)
}

// SendFrameWithOptions shows a frame with an explicit PicID and speed.
func (c *Client) SendFrameWithOptions(ctx context.Context, frame *domain.Frame, opts *FrameCommandOptions) error {
	cmd := CreatePixooFrameCommand(frame, opts)
	return c.call(ctx, cmd.Command, cmd, nil)
}

// ResetGifID resets the device's frame counter.
func (c *Client) ResetGifID(ctx context.Context) error {
	cmd := CreateResetGifIDCommand()
	if err := c.call(ctx, cmd.Command, cmd, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.picID = 0
	c.mu.Unlock()
	return nil
}

// Push sends a frame with the next PicID. The device ignores a PicID it
// has already shown, so the counter is reset before the first push.
func (c *Client) Push(ctx context.Context, frame *domain.Frame) error {
	c.mu.Lock()
	first := c.picID == 0
	c.mu.Unlock()
	if first {
		if err := c.ResetGifID(ctx); err != nil {
			return fmt.Errorf("reset gif id: %w", err)
		}
	}

	c.mu.Lock()
	c.picID++
	id := c.picID
	c.mu.Unlock()

	return c.SendFrameWithOptions(ctx, frame, &FrameCommandOptions{PicID: id})
}

// GetDeviceTime queries the device clock.
func (c *Client) GetDeviceTime(ctx context.Context) (DeviceTime, error) {
	var t DeviceTime
	cmd := CreateDeviceTimeCommand()
	err := c.call(ctx, cmd.Command, cmd, &t)
	return t, err
}

// SetBrightness sets the display brightness (0-100).
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	cmd := CreateBrightnessCommand(brightness)
	return c.call(ctx, cmd.Command, cmd, nil)
}

// IsReachable reports whether the device answers a clock query.
func (c *Client) IsReachable(ctx context.Context) bool {
	_, err := c.GetDeviceTime(ctx)
	return err == nil
}
