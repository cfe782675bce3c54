package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every option key when read from the environment,
// e.g. LIBRARY_PORT overrides `port`.
const envPrefix = "LIBRARY"

var Opts *Options

// ResolveDataDir makes sure Opts.Data exists and, unless a DSN was configured,
// places the database inside it.
func ResolveDataDir() error {
	dataDir, err := checkDataDir(Opts.Data)
	if err != nil {
		return err
	}
	Opts.Data = dataDir
	if Opts.DSN == "" || Opts.DSN == defaultDSN {
		Opts.DSN = filepath.Join(Opts.Data, "/library.db")
	}
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			if !errors.Is(err, os.ErrPermission) || dataDir != defaultData {
				return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
			}
			// Permission denied on the default location, fall back to the home directory
			return homeDataDir()
		}
	}
	return dataDir, nil
}

func homeDataDir() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "unable to get current user")
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("unable to get home directory")
	}

	dataDir := filepath.Join(currentUser.HomeDir, "/.e-library")
	if _, err := os.Stat(dataDir); err == nil {
		return dataDir, nil
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}
	fmt.Println("Data folder created in user's home directory: ", dataDir)
	return dataDir, nil
}

// ParseFile overlays the options in file on top of the current options.
// Environment variables (and a .env file next to the binary) take precedence over the file.
func ParseFile(file string) (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}

	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", file)
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	return Opts, nil
}

// ParseEnv applies LIBRARY_* environment variables to the current options.
func ParseEnv() (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}
	v := newViper()
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode environment")
	}
	return Opts, nil
}

func newViper() *viper.Viper {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper knows about, so register every option
	// with its current value as default.
	for key, value := range Opts.toMap() {
		v.SetDefault(key, value)
	}
	return v
}

func (o *Options) toMap() map[string]any {
	return map[string]any{
		"log_file":             o.LogFile,
		"log_level":            o.LogLevel,
		"log_file_max_size":    o.LogFileMaxSize,
		"log_file_max_backups": o.LogFileMaxBackups,
		"log_file_max_age":     o.LogFileMaxAge,
		"log_compress":         o.LogCompress,
		"dsn_uri":              o.DSN,
		"port":                 o.Port,
		"host":                 o.Host,
		"data":                 o.Data,
		"loan_period_days":     o.LoanPeriodDays,
		"fine_per_day":         o.FinePerDay,
		"read_timeout":         o.ReadTimeout,
		"write_timeout":        o.WriteTimeout,
	}
}
