package config

// ConfigFile represents the structure of .rugby/config.yaml.
// Pointer fields distinguish "unset" from zero values.
type ConfigFile struct {
	BinariesPath         string `yaml:"binariesPath"`
	Configuration        string `yaml:"configuration"`
	SDK                  string `yaml:"sdk"`
	Parallelism          int    `yaml:"parallelism"`
	KeepHashYamls        *bool  `yaml:"keepHashYamls"`
	PrintMissingBinaries *bool  `yaml:"printMissingBinaries"`
	LogJSON              *bool  `yaml:"logJSON"`
	Verbose              *bool  `yaml:"verbose"`
}
