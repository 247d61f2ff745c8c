package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm"
	"github.com/spance/mobilefarm-go/mobilefarm/adb"
	"github.com/spance/mobilefarm-go/mobilefarm/appium"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/mobilefarm/harness"
	"github.com/spance/mobilefarm-go/mobilefarm/helper"
	"github.com/spance/mobilefarm-go/mobilefarm/usecases"
	"github.com/spance/mobilefarm-go/utils"
	"github.com/spf13/cobra"
)

// Config holds all the configuration values from command line arguments
type Config struct {
	OutputDir    string        `json:"output_dir"`
	TestName     string        `json:"test_name"`
	Inventory    string        `json:"inventory"`
	Device       string        `json:"device"`
	App          string        `json:"app"`
	AppPackage   string        `json:"app_package"`
	AppActivity  string        `json:"app_activity"`
	ImplicitWait time.Duration `json:"implicit_wait"`
	Integration  string        `json:"integration"`
	Verbosity    string        `json:"verbosity"`
	Flow         string        `json:"flow"`
	AlarmIn      time.Duration `json:"alarm_in"`

	ListApps         bool   `json:"list_apps"`
	ListDevices      bool   `json:"list_devices"`
	ListCapabilities bool   `json:"list_capabilities"`
	Connect          string `json:"connect"`
	Debug            bool   `json:"debug"`
}

const (
	flowBuildNumber = "build-number"
	flowOpenApp     = "open-app"
	flowAlarm       = "alarm"
)

var flows = []string{flowBuildNumber, flowOpenApp, flowAlarm}

var rootCmd = &cobra.Command{
	Use:   "mobilefarm",
	Short: "MobileFarm - screenshot-instrumented Android automation",
	Long: `MobileFarm drives an Android device through a local Appium server and
saves a screenshot before and after every interactive action under
<output-dir>/<test-name>.`,
	Example: `  # Read the build number from Settings (default flow)
  go run main.go

  # Keep artifacts somewhere else
  go run main.go --save-console-logs /tmp/results --test-name nightly_build

  # Pick a device from an inventory file
  go run main.go --inventory devices.yaml --device pixel8_pro

  # Set an alarm two minutes from now with the event listener at full verbosity
  go run main.go --app Clock --flow alarm --integration events --verbosity verbose

  # List supported apps
  go run main.go --list-apps

  # List attached devices
  go run main.go --list-devices

  # Show the capabilities a session would be created with
  go run main.go --app Chrome --list-capabilities`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var config = &Config{}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func init() {
	// Output options
	rootCmd.PersistentFlags().StringVar(&config.OutputDir, "save-console-logs",
		getEnv(harness.EnvOutputDir, ""),
		"Artifact root directory (default: <cwd>/results)")
	rootCmd.PersistentFlags().StringVar(&config.OutputDir, "output-dir", config.OutputDir,
		"Alias of --save-console-logs")

	rootCmd.PersistentFlags().StringVarP(&config.TestName, "test-name", "t",
		getEnv("MOBILEFARM_TEST_NAME", ""),
		"Directory name for this run's screenshots (default: the flow name)")

	// Device options
	rootCmd.PersistentFlags().StringVar(&config.Inventory, "inventory",
		getEnv("MOBILEFARM_INVENTORY", ""),
		"YAML device inventory file")

	rootCmd.PersistentFlags().StringVarP(&config.Device, "device", "d",
		getEnv("MOBILEFARM_DEVICE", ""),
		"Device name in the inventory, or adb serial without one")

	rootCmd.PersistentFlags().StringVar(&config.App, "app", "",
		"Known app name (see --list-apps)")

	rootCmd.PersistentFlags().StringVar(&config.AppPackage, "app-package", "",
		"App package (overrides --app and the inventory)")

	rootCmd.PersistentFlags().StringVar(&config.AppActivity, "app-activity", "",
		"App activity (overrides --app and the inventory)")

	rootCmd.PersistentFlags().DurationVar(&config.ImplicitWait, "implicit-wait",
		getEnvDuration("MOBILEFARM_IMPLICIT_WAIT", constants.DefaultImplicitWait),
		"Implicit wait for element lookups")

	// Capture options
	rootCmd.PersistentFlags().StringVar(&config.Integration, "integration",
		getEnv("MOBILEFARM_INTEGRATION", string(mobilefarm.IntegrationProxy)),
		"How capture is attached: proxy or events")

	rootCmd.PersistentFlags().StringVar(&config.Verbosity, "verbosity",
		getEnv("MOBILEFARM_VERBOSITY", ""),
		"Listener tier for --integration events: minimal, standard or verbose (default: from log level)")

	// Flow options
	rootCmd.PersistentFlags().StringVar(&config.Flow, "flow", flowBuildNumber,
		fmt.Sprintf("Flow to run: %s", strings.Join(flows, ", ")))

	rootCmd.PersistentFlags().DurationVar(&config.AlarmIn, "alarm-in", 2*time.Minute,
		"How far ahead the alarm flow sets its alarm")

	// Other options
	rootCmd.PersistentFlags().BoolVar(&config.ListApps, "list-apps", false,
		"List supported apps and exit")

	rootCmd.PersistentFlags().BoolVar(&config.ListDevices, "list-devices", false,
		"List attached devices and exit")

	rootCmd.PersistentFlags().BoolVar(&config.ListCapabilities, "list-capabilities", false,
		"Print the session capabilities and exit")

	rootCmd.PersistentFlags().StringVarP(&config.Connect, "connect", "c", "",
		"Connect to a remote device (e.g., 192.168.1.100:5555) and exit")

	rootCmd.PersistentFlags().BoolVar(&config.Debug, "debug", false,
		"Enable debug mode (default: false)")
}

func main() {
	// Set pre-run validation
	rootCmd.PersistentPreRunE = validateArgs

	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func validateArgs(cmd *cobra.Command, args []string) error {
	// Configure zerolog
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if _, err := mobilefarm.ParseIntegration(config.Integration); err != nil {
		return err
	}
	if config.Verbosity != "" {
		if _, err := definitions.ParseVerbosity(config.Verbosity); err != nil {
			return err
		}
	}
	if !lo.Contains(flows, config.Flow) {
		return fmt.Errorf("invalid flow: %s. Must be one of %s", config.Flow, strings.Join(flows, ", "))
	}
	if config.App != "" {
		if _, ok := constants.GetAppByName(config.App); !ok {
			return fmt.Errorf("unknown app: %s. See --list-apps", config.App)
		}
	}
	if config.ImplicitWait < 0 {
		return fmt.Errorf("invalid implicit wait: %s", config.ImplicitWait)
	}
	return nil
}

func run(ctx context.Context) error {
	// Handle --list-apps (no device needed)
	if config.ListApps {
		supportedApps := lo.Keys(constants.APP_PACKAGES_ANDROID)
		sort.Strings(supportedApps)

		log.Info().Msg("Supported Android apps:")
		for _, app := range supportedApps {
			info := constants.APP_PACKAGES_ANDROID[app]
			log.Info().Str("app", app).Str("package", info.Package).Msg("-")
		}
		return nil
	}

	if hitCmd, err := handleDeviceCommands(ctx); hitCmd {
		return err
	}

	device, err := resolveDevice(ctx)
	if err != nil {
		return err
	}

	if config.ListCapabilities {
		fmt.Println(utils.JsonIndent(appium.W3CCapabilities(helper.GetCapabilities(device))))
		return nil
	}

	if ready, err := appium.Status(ctx, constants.AppiumServerURL, nil); err != nil || !ready {
		log.Error().Err(err).Str("server", constants.AppiumServerURL).Msg("❌ Appium server is not ready")
		return fmt.Errorf("appium server %s is not ready", constants.AppiumServerURL)
	}

	fixture, err := harness.Setup(ctx, device, lo.CoalesceOrEmpty(config.TestName, strings.ReplaceAll(config.Flow, "-", "_")), sessionOptions()...)
	if err != nil {
		return err
	}
	printConfiguration(device, fixture)

	flowErr := runFlow(ctx, fixture)
	if flowErr != nil {
		log.Error().Err(flowErr).Str("flow", config.Flow).Msg("❌ flow failed")
	}
	return errors.Join(flowErr, fixture.Teardown(ctx))
}

func sessionOptions() []mobilefarm.SessionOption {
	integration, _ := mobilefarm.ParseIntegration(config.Integration)

	verbosity := definitions.VerbosityFromLevel(zerolog.GlobalLevel())
	if config.Verbosity != "" {
		verbosity, _ = definitions.ParseVerbosity(config.Verbosity)
	}

	opts := []mobilefarm.SessionOption{
		mobilefarm.WithImplicitWait(config.ImplicitWait),
		mobilefarm.WithIntegration(integration),
		mobilefarm.WithVerbosity(verbosity),
	}
	if config.OutputDir != "" {
		opts = append(opts, mobilefarm.WithOutputDir(config.OutputDir))
	}
	return opts
}

func runFlow(ctx context.Context, fixture *harness.Fixture) error {
	driver := fixture.Driver

	if err := usecases.OpenApplication(ctx, fixture.Device, driver); err != nil {
		return err
	}

	switch config.Flow {
	case flowBuildNumber:
		build, err := usecases.ReadBuildNumber(ctx, driver)
		if err != nil {
			return err
		}
		log.Info().Msgf("🎉 Build number: %s", build)
	case flowAlarm:
		at := time.Now().Add(config.AlarmIn)
		if err := usecases.SetAlarm(ctx, driver, at); err != nil {
			return err
		}
		if err := usecases.DismissAlarm(ctx, driver, config.AlarmIn+time.Minute); err != nil {
			return err
		}
		log.Info().Msg("🎉 Alarm rang and was dismissed")
	}
	return nil
}

// resolveDevice merges the inventory entry (or what adb reports), --app and
// the explicit package and activity flags, in that order.
func resolveDevice(ctx context.Context) (definitions.DeviceConfig, error) {
	device := definitions.DeviceConfig{Name: config.Device}

	if config.Inventory != "" {
		inv, err := helper.LoadInventory(config.Inventory)
		if err != nil {
			return device, err
		}
		if device, err = inv.Device(config.Device); err != nil {
			return device, err
		}
	} else if resolved, err := adb.NewClient(nil).Resolve(ctx, device); err != nil {
		log.Debug().Err(err).Msg("device not resolved through adb")
	} else {
		device = resolved
	}

	if config.App != "" {
		device, _ = helper.DeviceForApp(device, config.App)
	}
	device.AppPackage = lo.CoalesceOrEmpty(config.AppPackage, device.AppPackage)
	device.AppActivity = lo.CoalesceOrEmpty(config.AppActivity, device.AppActivity)
	return device, nil
}

func handleDeviceCommands(ctx context.Context) (bool, error) {
	client := adb.NewClient(nil)

	// --list-devices
	if config.ListDevices {
		devices, err := client.ListDevices(ctx)
		if err != nil {
			return true, err
		}
		if len(devices) == 0 {
			log.Info().Msg("No devices connected.")
			return true, nil
		}
		log.Info().Msg("Connected devices:")
		log.Info().Msg(strings.Repeat("-", 60))
		for _, d := range devices {
			statusIcon := lo.Ternary(d.Online(), "✅", "❌")
			modelInfo := lo.Ternary(d.Model != "", fmt.Sprintf(" (%s)", d.Model), "")
			log.Info().Str("device", fmt.Sprintf("  %s %-30s [%s]%s", statusIcon, d.Serial, d.ConnectionType, modelInfo)).Msg("")
		}
		return true, nil
	}

	// --connect
	if config.Connect != "" {
		log.Info().Msgf("Connecting to %s...", config.Connect)
		message, err := client.Connect(ctx, config.Connect)
		if err != nil {
			log.Error().Err(err).Msg("❌")
			return true, err
		}
		log.Info().Str("msg", message).Msg("✅")
		return true, nil
	}

	return false, nil
}

func printConfiguration(device definitions.DeviceConfig, fixture *harness.Fixture) {
	log.Info().Msg("📱 MobileFarm")
	log.Info().Msg(strings.Repeat("=", 50))
	log.Info().Str("server", constants.AppiumServerURL).Msg("Appium")
	log.Info().Str("name", device.Name).Str("model", device.Model).Msg("Device")
	log.Info().Str("package", device.AppPackage).Str("activity", device.AppActivity).
		Str("app", constants.GetAppNameByPackage(device.AppPackage)).Msg("App")
	log.Info().Str("integration", config.Integration).Str("flow", config.Flow).Msg("Run")
	log.Info().Str("path", fixture.ScreenshotPath()).Msg("Screenshots")
	log.Info().Msg(strings.Repeat("=", 50))
	log.Debug().Str("config", utils.JsonIndent(config)).Msg("Configuration")
}
