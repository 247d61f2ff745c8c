// Package adb finds the devices an Appium server can drive through the local
// adb binary.
package adb

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

const adbPath = "adb"

// Runner executes adb with args and returns its combined output.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

func execRunner(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, adbPath, args...).CombinedOutput()
}

type Client struct {
	run Runner
}

// NewClient returns a Client running the adb found on PATH. A non-nil run
// replaces it.
func NewClient(run Runner) *Client {
	return &Client{run: lo.Ternary(run != nil, run, Runner(execRunner))}
}

func (c *Client) exec(ctx context.Context, op string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().Str("cmd", fmt.Sprintf("[%s] run cmd: %s %s", op, adbPath, strings.Join(args, " "))).Msg("")
	output, err := c.run(ctx, args...)
	if err != nil {
		log.Error().Err(err).Msgf("[%s] run cmd failed", op)
		return string(output), err
	}
	log.Debug().Str("output", string(output)).Msgf("[%s] raw output", op)
	return string(output), nil
}

func (c *Client) ListDevices(ctx context.Context) ([]definitions.DeviceInfo, error) {
	output, err := c.exec(ctx, "ListDevices", 5*time.Second, "devices", "-l")
	if err != nil {
		return nil, err
	}
	return ParseDevices(output), nil
}

// Connect attaches a device listening on address (host:port) over TCP/IP.
func (c *Client) Connect(ctx context.Context, address string) (string, error) {
	output, err := c.exec(ctx, "Connect", 5*time.Second, "connect", address)
	if err != nil {
		return fmt.Sprintf("Connect error: %v", err), err
	}

	lower := strings.ToLower(strings.TrimSpace(output))
	switch {
	case strings.Contains(lower, "already connected"):
		return fmt.Sprintf("Already connected to %s", address), nil
	case strings.HasPrefix(lower, "connected to"), strings.Contains(lower, "\nconnected to"):
		return fmt.Sprintf("Connected to %s", address), nil
	default:
		return "", fmt.Errorf("connect %s: %s", address, strings.TrimSpace(output))
	}
}

// Resolve fills device.Model from the attached device whose serial is
// device.Name, or from the only online device when device.Name is empty.
func (c *Client) Resolve(ctx context.Context, device definitions.DeviceConfig) (definitions.DeviceConfig, error) {
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return device, err
	}
	online := lo.Filter(devices, func(d definitions.DeviceInfo, _ int) bool { return d.Online() })

	var found definitions.DeviceInfo
	switch {
	case device.Name != "":
		info, ok := lo.Find(online, func(d definitions.DeviceInfo) bool { return d.Serial == device.Name })
		if !ok {
			return device, fmt.Errorf("device %s is not attached", device.Name)
		}
		found = info
	case len(online) == 1:
		found = online[0]
		device.Name = found.Serial
	default:
		return device, fmt.Errorf("%d devices attached, pick one with --device", len(online))
	}

	if device.Model == "" {
		device.Model = found.Model
	}
	return device, nil
}

// ParseDevices reads the output of `adb devices -l`.
func ParseDevices(output string) []definitions.DeviceInfo {
	var devices []definitions.DeviceInfo
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		info := definitions.DeviceInfo{
			Serial:         parts[0],
			Status:         parts[1],
			ConnectionType: lo.Ternary(strings.Contains(parts[0], ":"), definitions.Remote, definitions.USB),
		}
		for _, part := range parts[2:] {
			if model, ok := strings.CutPrefix(part, "model:"); ok {
				info.Model = model
				break
			}
		}
		devices = append(devices, info)
	}
	return devices
}
