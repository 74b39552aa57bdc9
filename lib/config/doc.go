// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the resolve client.
//
// Values are layered in a fixed order:
//
//   - built-in defaults ([Default])
//   - a .env file in the working directory, which only fills variables
//     that are not already set
//   - an optional YAML file named by RESOLVE_CONFIG or --config
//   - the environment-specific section of that file (development,
//     staging, production) matching [Config].Environment
//   - RESOLVE_API_URL / VITE_API_URL and RESOLVE_SESSION_FILE
//
// ${HOME} and ${VAR:-default} patterns are expanded in paths and the
// base URL after loading.
//
// This package depends on no other resolve packages.
package config
