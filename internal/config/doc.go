// Package config manages the lidator CLI configuration using Viper.
//
// # Configuration File
//
// The file is config.yaml, searched in the current directory and then in
// the XDG config directory (~/.config/lidator on Linux):
//
//	version: 1
//	validation_type: intake
//	include_field_name_in_message: true
//	output_format: text
//	fail_on_warnings: false
//	rules_file: ~/rules/intake.yaml
//
// Every key can be overridden by an environment variable with the LIDATOR_
// prefix, for example LIDATOR_OUTPUT_FORMAT=json.
//
// # Validation
//
// [Validate] checks a loaded configuration with the validation engine
// itself and returns the resulting ledger, so configuration problems are
// reported the same way as document problems.
package config
