package config

const (
	defaultConfigPath          = "~/.config/meetcheck/config.toml"
	defaultLogDir              = "~/.local/share/meetcheck/logs"
	defaultCameraDevice        = "/dev/video0"
	defaultPowerSupplyDir      = "/sys/class/power_supply"
	defaultToneSeconds         = 2.0
	defaultToneFrequency       = 440.0
	defaultProbeTrials         = 10
	defaultProbeInterval       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	maxProbeTrials             = 100
	maxToneSeconds             = 30.0
	defaultNetworkProbeURL     = "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8b/%22Psst._don%27t_look_now%2C_but_you%27re_a_Supreme_Court_Justice.%22_Washington%2C_D.C.%2C_March_24._Awaiting_the_speedy_decision_of_the_Judiciary_Sub-committee_of_the_Senate_in_the_Appropriations_LCCN2016875318.tif/lossy-page1-1920px-thumbnail.tif.jpg"
	probeURLEnv                = "MEETCHECK_PROBE_URL"
	cameraDeviceEnv            = "MEETCHECK_CAMERA_DEVICE"
	defaultBatteryListenEvents = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Camera: Camera{
			Enabled: true,
			Device:  defaultCameraDevice,
		},
		Battery: Battery{
			Enabled:        true,
			PowerSupplyDir: defaultPowerSupplyDir,
			ListenUEvents:  defaultBatteryListenEvents,
		},
		Speaker: Speaker{
			Enabled:       true,
			ToneSeconds:   defaultToneSeconds,
			ToneFrequency: defaultToneFrequency,
		},
		Network: Network{
			Enabled:         true,
			ProbeURL:        defaultNetworkProbeURL,
			Trials:          defaultProbeTrials,
			IntervalSeconds: defaultProbeInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
