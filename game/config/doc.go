// Package config provides preset management for Maze Runner.
//
// The config package handles:
//   - Loading maze presets from JSON files
//   - Filling omitted fields with the built-in defaults before validation
//   - Default preset selection
//   - Preset discovery, listing and saving
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory. Each preset
// defines a maze size, an optional fixed seed, the solution reveal tick and
// the messages shown to the player.
//
// Shipped Presets:
//   - tiny: 5x5 warm-up maze
//   - classic: 10x10, the default
//   - large: 25x25 with a faster reveal
//   - seeded: 12x12 with a fixed seed, identical on every generate
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mazeConfig, err := manager.LoadConfig("large")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
package config
