// Package service provides the business logic layer for Maze Runner.
//
// The service package implements:
//   - Multi-session maze management
//   - Preset loading through a ConfigManager
//   - Move processing with per-step traces and refusal diagnostics
//   - Solve and hint requests
//   - Paginated move history
//
// Core Interfaces:
//
// MazeService is the main service interface used by every transport.
// SessionManager handles session creation, retrieval and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Concurrency:
//
// The service serializes all calls into session engines with a single
// RWMutex; engines themselves are not safe for concurrent use.
//
// Errors:
//
// Lookups of unknown sessions wrap ErrSessionNotFound; bad sizes and
// directions wrap ErrInvalidSize and ErrInvalidDirection. Transports map
// them with errors.Is.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	mazeService := service.NewMazeService(sessionMgr, configMgr)
//
//	info, err := mazeService.CreateSession(ctx, "classic", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := mazeService.Move(ctx, info.ID, "right", false)
//	solution, err := mazeService.Solve(ctx, info.ID)
package service
