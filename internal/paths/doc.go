// Package paths resolves where lidator keeps its configuration and rule sets.
//
// Directories follow the XDG Base Directory conventions through
// github.com/adrg/xdg, so on Linux the configuration lives in
// ~/.config/lidator and on macOS in ~/Library/Application Support/lidator.
//
//	paths.ConfigFile() // <ConfigDir>/config.yaml
//	paths.RulesDir()   // <ConfigDir>/rules
//
// Setting LIDATOR_CONFIG_DIR overrides the directory entirely.
package paths
