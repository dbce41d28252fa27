// Package config loads and validates the TOML configuration shared by the
// prism CLI and library entry points. Values not present in the file fall
// back to repository defaults, and all path fields are expanded to absolute
// paths before the config is handed out.
package config
