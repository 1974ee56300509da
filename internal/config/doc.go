// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config manages JSON configuration loading for OttoMap. It handles
// debug flags, experimental feature toggles, parser options, and Worldographer
// map rendering settings including zoom levels, terrain colors, and unit symbols.
// Configuration is loaded from an ottomap.json file with sensible defaults.
package config
