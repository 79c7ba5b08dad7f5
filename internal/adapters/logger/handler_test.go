package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rugby/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_DebugFiltered(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Debug("debug message")

	assert.Empty(t, buf.String())
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).With("target", "Alamofire")
	lg.Info("computed", "fingerprint", "abc1234")

	g := goldie.New(t)
	g.Assert(t, "handler_attrs", buf.Bytes())
}

func TestPrettyHandler_MultilineIndent(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Warn("missing binaries (2):\nAlamofire\n\nMoya", "configuration", "Debug")

	assert.Equal(t, "! missing binaries (2):\n  Alamofire\n\n  Moya configuration=Debug\n", buf.String())
}

func TestPrettyHandler_Groups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).WithGroup("step").WithGroup("hash")
	lg.Info("done", "target", "Alamofire", slog.Group("cache", "hit", true))

	assert.Equal(t, "done step.hash.target=Alamofire step.hash.cache.hit=true\n", buf.String())
}

func TestPrettyHandler_QuotesValues(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Info("restored", "path", "Pods/Target Support Files/Pods-App.xcconfig", "kind", "", "slot", "original")

	assert.Equal(t, `restored path="Pods/Target Support Files/Pods-App.xcconfig" kind="" slot=original`+"\n", buf.String())
}

func TestPrettyHandler_LevelVar(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	level := &slog.LevelVar{}
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}))

	lg.Debug("hidden")
	level.Set(slog.LevelDebug)
	lg.Debug("hashing Moya")

	assert.Equal(t, "~ hashing Moya\n", buf.String())
}
