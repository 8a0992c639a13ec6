package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/api"
	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/session"
	"github.com/wricardo/mcp-training/mazerunner/transport/mcp"
	"github.com/wricardo/mcp-training/mazerunner/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Maze Runner Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "configs"
	defer func() { *configDir = originalConfigDir }()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	mazeService, sessions, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if mazeService == nil || sessions == nil {
		t.Fatal("Expected maze service and session manager to be initialized")
	}

	info, err := mazeService.CreateSession(context.Background(), "tiny", 0)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.MazeState.Size != 5 {
		t.Errorf("Expected tiny preset size 5, got %d", info.MazeState.Size)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", sessions.Count())
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "/non/existent/path"
	defer func() { *configDir = originalConfigDir }()

	_, _, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv("CONFIG_DIR", "")
	if got := getConfigDirDefault(); got != "configs" {
		t.Errorf("Expected configs, got %s", got)
	}

	t.Setenv("CONFIG_DIR", "/etc/mazes")
	if got := getConfigDirDefault(); got != "/etc/mazes" {
		t.Errorf("Expected /etc/mazes, got %s", got)
	}
}

func TestNgrokSettings(t *testing.T) {
	originalEnabled, originalAuth := *ngrokEnabled, *ngrokAuth
	defer func() { *ngrokEnabled, *ngrokAuth = originalEnabled, originalAuth }()

	*ngrokEnabled = false
	t.Setenv("NGROK_ENABLED", "")
	if ngrokRequested() {
		t.Error("ngrok should be off by default")
	}
	t.Setenv("NGROK_ENABLED", "1")
	if !ngrokRequested() {
		t.Error("NGROK_ENABLED=1 should enable ngrok")
	}

	*ngrokAuth = ""
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "underscore")
	if got := ngrokAuthToken(); got != "underscore" {
		t.Errorf("Expected NGROK_AUTH_TOKEN fallback, got %q", got)
	}
	t.Setenv("NGROK_AUTHTOKEN", "env")
	if got := ngrokAuthToken(); got != "env" {
		t.Errorf("Expected NGROK_AUTHTOKEN to win over the fallback, got %q", got)
	}
	*ngrokAuth = "flag"
	if got := ngrokAuthToken(); got != "flag" {
		t.Errorf("Expected flag to win, got %q", got)
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	stale, err := manager.Create("stale", engine.DefaultMazeConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	if _, err := manager.Create("fresh", engine.DefaultMazeConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, 10*time.Millisecond, time.Hour)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for manager.Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected only the fresh session to remain, got %d sessions", manager.Count())
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Errorf("Fresh session should survive cleanup: %v", err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup routine did not stop after cancel")
	}
}

func TestStartInternalServer(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "configs"
	defer func() { *configDir = originalConfigDir }()

	mazeService, _, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	baseURL, err := startInternalServer(mazeService)
	if err != nil {
		t.Fatalf("startInternalServer failed: %v", err)
	}
	if !strings.HasPrefix(baseURL, "http://127.0.0.1:") {
		t.Errorf("Expected loopback URL, got %s", baseURL)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !apiAvailable(baseURL) && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if !apiAvailable(baseURL) {
		t.Fatal("internal server never became healthy")
	}
}

func TestAPIAvailable_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if apiAvailable(url) {
		t.Error("closed server should not be reported as available")
	}
}

func TestNewRouter_MCPEndpoint(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "configs"
	defer func() { *configDir = originalConfigDir }()

	mazeService, _, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	// The MCP client proxies back to the same test server
	ts := httptest.NewUnstartedServer(nil)
	mcpClient := mcp.NewClient("http://" + ts.Listener.Addr().String())
	ts.Config.Handler = newRouter(api.NewServer(mazeService, hub), mcpClient)
	ts.Start()
	defer ts.Close()

	t.Run("health through root mount", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatalf("GET /health failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("GET not allowed", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/mcp")
		if err != nil {
			t.Fatalf("GET /mcp failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", resp.StatusCode)
		}
	})

	t.Run("tools list", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
		resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /mcp failed: %v", err)
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		for _, tool := range []string{"create_session", "solve_maze", "bulk_move", "describe_cell"} {
			if !strings.Contains(string(data), tool) {
				t.Errorf("Expected tool %s in tools/list response: %s", tool, data)
			}
		}
	})

	t.Run("tool call proxies to API", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"create_session","arguments":{"config_id":"tiny"}}}`
		resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /mcp failed: %v", err)
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(data), "Size: 5x5") {
			t.Errorf("Expected a 5x5 maze in the tool result: %s", data)
		}
	})
}
