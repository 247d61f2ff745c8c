package definitions

// DeviceConfig is the slice of device metadata the session needs.
type DeviceConfig struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	AppPackage  string `json:"app_package,omitempty" yaml:"app_package,omitempty"`
	AppActivity string `json:"app_activity,omitempty" yaml:"app_activity,omitempty"`
}

// Capabilities is the flat capability mapping sent when a session is created.
type Capabilities map[string]any

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is an element's geometry in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the point in the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

type ConnectionType string

const (
	USB    ConnectionType = "usb"
	Remote ConnectionType = "remote"
)

// DeviceInfo is one line of `adb devices -l`.
type DeviceInfo struct {
	Serial         string         `json:"serial"`
	Status         string         `json:"status"`
	ConnectionType ConnectionType `json:"connection_type"`
	Model          string         `json:"model,omitempty"`
}

// Online reports whether adb can talk to the device.
func (d DeviceInfo) Online() bool {
	return d.Status == "device"
}
