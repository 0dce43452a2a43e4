package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from ENV_FILE (default ".env") without
// overriding variables already set in the process environment. A missing
// default file is not an error; a missing explicit ENV_FILE is.
func LoadDotEnv() error {
	path := GetEnv("ENV_FILE", "")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
