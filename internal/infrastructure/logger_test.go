package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"salespulse/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}
	if GetLogger() != logger {
		t.Error("GetLogger did not return the initialized logger")
	}

	// Second call is a no-op
	again, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	if err != nil || again != logger {
		t.Error("InitializeLogger should only configure once")
	}

	logger.Info("rows cleaned", "rows", 12)
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "rows cleaned" {
		t.Errorf("Expected msg='rows cleaned', got %v", logEntry["msg"])
	}
	if logEntry["rows"] != float64(12) {
		t.Errorf("Expected rows=12, got %v", logEntry["rows"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestTraceIDInjection(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() context.Context
		want string
	}{
		{
			name: "explicit trace id",
			ctx:  func() context.Context { return WithTraceID(context.Background(), "test-trace-123") },
			want: "test-trace-123",
		},
		{
			name: "chi request id",
			ctx: func() context.Context {
				return context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
			},
			want: "req-42",
		},
		{
			name: "no correlation",
			ctx:  context.Background,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			logger.With("component", "test").InfoContext(tt.ctx(), "with trace")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse log JSON: %v", err)
			}

			got, _ := logEntry["trace_id"].(string)
			if got != tt.want {
				t.Errorf("Expected trace_id=%q, got %q", tt.want, got)
			}
			if logEntry["component"] != "test" {
				t.Errorf("Expected component attribute to survive WithAttrs, got %v", logEntry["component"])
			}
		})
	}
}

func TestTraceIDThroughChiMiddleware(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "upstream-id" {
		t.Errorf("Expected request id to be used as trace id, got %q", seen)
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logFn    func(*slog.Logger)
		expected string
		dropped  bool
	}{
		{"debug", func(l *slog.Logger) { l.Debug("x") }, "DEBUG", false},
		{"info", func(l *slog.Logger) { l.Info("x") }, "INFO", false},
		{"warning", func(l *slog.Logger) { l.Warn("x") }, "WARN", false},
		{"error", func(l *slog.Logger) { l.Error("x") }, "ERROR", false},
		{"error", func(l *slog.Logger) { l.Warn("x") }, "", true},
		{"bogus", func(l *slog.Logger) { l.Debug("x") }, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(&buf, &slog.HandlerOptions{Level: parseLogLevel(tt.level)})

			tt.logFn(logger)

			if tt.dropped {
				if buf.Len() != 0 {
					t.Errorf("Expected record to be filtered, got %s", buf.String())
				}
				return
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse log JSON: %v", err)
			}
			if logEntry["level"] != tt.expected {
				t.Errorf("Expected level=%s, got %v", tt.expected, logEntry["level"])
			}
		})
	}
}

func TestNewLoggerBothOutputs(t *testing.T) {
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "both.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("forecast produced")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "forecast produced") {
		t.Errorf("Expected log file to contain message, got %s", content)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	if traceID == "" {
		t.Fatal("Expected trace ID to be generated")
	}

	if GetTraceID(EnsureTraceID(ctx)) != traceID {
		t.Error("EnsureTraceID changed existing trace ID")
	}

	var buf bytes.Buffer
	WithComponent(slog.New(slog.NewJSONHandler(&buf, nil)), "cleaner").Info("ready")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["component"] != "cleaner" {
		t.Errorf("Expected component='cleaner', got %v", logEntry["component"])
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Output != "console" || cfg.Format != "json" || cfg.Level != "info" {
		t.Errorf("Unexpected default logging config: %+v", cfg)
	}
}

func TestNewCLILogger(t *testing.T) {
	var console bytes.Buffer
	logger, err := NewCLILogger(config.LoggingConfig{Level: "warn", Output: "console"}, &console)
	if err != nil {
		t.Fatalf("NewCLILogger() error = %v", err)
	}

	logger.Info("dropped below level")
	logger.Warn("Required field not mapped", slog.String("field", "Location"))

	var logEntry map[string]interface{}
	if err := json.Unmarshal(console.Bytes(), &logEntry); err != nil {
		t.Fatalf("Expected exactly one JSON record, got %q: %v", console.String(), err)
	}
	if logEntry["msg"] != "Required field not mapped" {
		t.Errorf("Expected warn record, got %v", logEntry["msg"])
	}
}
