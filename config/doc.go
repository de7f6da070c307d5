// Package config loads speechkit configuration.
//
// It uses Viper to read a YAML file and godotenv to read a .env file, then
// overlays environment variables prefixed with the upper-cased service name
// (SPEECHKIT_SILICONFLOW_BASE_URL sets siliconflow.base_url).
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("speechkit", &cfg, config.WithConfigFile(path))
package config
