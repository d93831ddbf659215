package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrMissingName       = goerr.New("name is required")
	ErrDuplicateUser     = goerr.New("duplicate username")
	ErrInvalidMapping    = goerr.New("invalid vocabulary mapping")
	ErrMissingCredential = goerr.New("credential is required")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	UserIndexKey  = "user_index"
	UsernameKey   = "username"
	MappingKey    = "mapping"
	ProviderKey   = "provider"
)
