// Package config loads and validates chatalign configuration.
//
// Configuration comes from a config.yml file, a .env file, and process
// environment variables (later sources win). Engine credentials and base
// URLs live here and are passed explicitly into each provider constructor;
// engine code never reads the environment on its own.
package config
