// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/claims"
)

// EnvConfigJSON is the environment variable holding a JSON override merged
// over the TOML configuration.
const EnvConfigJSON = "HYDRA_LDAP_BRIDGE_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config override from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the config and fill in defaults. The claim maps are checked at
// startup so a colliding mapping can never reach a consent decision.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.BasePath == "" {
		c.Webserver.BasePath = "/"
	}

	if c.Webserver.BasePath[0] != '/' {
		return errors.Wrap(ErrBasePathNoSlash, invalidErrMessage)
	}

	if (c.Webserver.TLSCertFile == "") != (c.Webserver.TLSKeyFile == "") {
		return errors.Wrap(ErrTLSFilesIncomplete, invalidErrMessage)
	}

	if c.OAuth.AttrsMap == nil {
		c.OAuth.AttrsMap = map[string]string{
			"cn":        "name",
			"sn":        "family_name",
			"givenName": "given_name",
			"mail":      "email",
		}
	}

	if c.OAuth.ClaimsMap == nil {
		c.OAuth.ClaimsMap = map[string]string{
			"name":        "profile",
			"family_name": "profile",
			"given_name":  "profile",
			"email":       "email",
		}
	}

	if err := claims.ValidateMaps(c.OAuth.AttrsMap, c.OAuth.ClaimsMap); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	v := validator.New()

	if err := v.Struct(c.Hydra); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	if err := v.Struct(c.Directory); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
