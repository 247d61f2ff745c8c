package helper

import (
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"gopkg.in/yaml.v3"
)

// Inventory maps device names to their configuration. On disk it is YAML:
//
//	devices:
//	  pixel8_pro:
//	    model: pixel8_pro
//	    app_package: com.android.settings
//	    app_activity: .Settings
type Inventory struct {
	Devices map[string]definitions.DeviceConfig `yaml:"devices"`
}

func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return ParseInventory(data)
}

func ParseInventory(data []byte) (*Inventory, error) {
	inv := &Inventory{}
	if err := yaml.Unmarshal(data, inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}
	for name, device := range inv.Devices {
		device.Name = name
		inv.Devices[name] = device
	}
	return inv, nil
}

// Names returns the device names in sorted order.
func (inv *Inventory) Names() []string {
	names := lo.Keys(inv.Devices)
	sort.Strings(names)
	return names
}

// Device returns the named device. With an empty name and a single device in
// the inventory, that device is returned.
func (inv *Inventory) Device(name string) (definitions.DeviceConfig, error) {
	if name == "" && len(inv.Devices) == 1 {
		return lo.Values(inv.Devices)[0], nil
	}
	device, ok := inv.Devices[name]
	if !ok {
		return definitions.DeviceConfig{}, fmt.Errorf("device %q not in inventory (have %v)", name, inv.Names())
	}
	return device, nil
}
