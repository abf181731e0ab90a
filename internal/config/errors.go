package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s missing: %s", ConfigFile, e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", ConfigFile, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type InvalidPropertyError struct {
	Wrapped  error
	Property string
	Value    string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("%s property %s has invalid value '%s': %v", ConfigFile, e.Property, e.Value, e.Wrapped)
}

func (e *InvalidPropertyError) Unwrap() error {
	return e.Wrapped
}

type InvalidOutputError struct {
	Value     string
	Supported []string
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf(
		"%s property output has invalid value '%s'. Supported values are: %v",
		ConfigFile,
		e.Value,
		e.Supported,
	)
}

type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}
