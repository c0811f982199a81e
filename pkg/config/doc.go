// Package config defines and loads the Vesta configuration.
//
// Configuration is YAML on disk with environment variable overrides
// (VESTA_SECTION_FIELD). Loading applies defaults, then the file, then
// the environment, then validates the result.
//
// A process-wide singleton is provided for the CLI entry points; the
// learning core itself never reads it and takes explicit handles and
// options instead.
package config
