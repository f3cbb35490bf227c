package server

import (
	"path/filepath"

	"github.com/iov-one/splitnet/errors"
	"github.com/spf13/viper"
)

const configName = "config"

const defaultConfig = `# splitnetd configuration, flags and SPLITNET_* variables take precedence
bind: "tcp://localhost:26658"
log_level: "info"
debug: false
cache_size: 0
`

// LoadConfig reads config.yaml from the home directory into viper. A
// missing file is not an error.
func LoadConfig(home string) error {
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrapf(errors.ErrInput, "config: %s", err)
	}
	return nil
}

func createConfig(home string) (string, bool, error) {
	path := filepath.Join(home, configName+".yaml")
	if fileExists(path) {
		return path, false, nil
	}
	if err := writeFile(path, []byte(defaultConfig)); err != nil {
		return path, false, err
	}
	return path, true, nil
}
