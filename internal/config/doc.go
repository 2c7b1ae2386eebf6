// SPDX-License-Identifier: MPL-2.0

// Package config handles project configuration using Viper with CUE as the file format.
//
// Configuration is read from minipack.cue in the project directory, or from an
// explicit path. Every file is validated against the embedded CUE schema
// (config_schema.cue) before its values are merged over the defaults, so type
// errors are reported with their field path. MINIPACK_* environment variables
// override file values.
package config
