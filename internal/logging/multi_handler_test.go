package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestMultiHandlerRespectsChildLevels(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	infoLevel := new(slog.LevelVar)
	debugLevel := new(slog.LevelVar)
	debugLevel.Set(slog.LevelDebug)

	logger := slog.New(newFanoutHandler(
		newPrettyHandler(&infoBuf, infoLevel, false),
		newJSONHandler(&debugBuf, debugLevel, false),
	)).With("component", "test")

	logger.Debug("debug only")
	logger.Info("both")

	if strings.Contains(infoBuf.String(), "debug only") {
		t.Fatalf("info handler received debug record: %q", infoBuf.String())
	}
	if !strings.Contains(infoBuf.String(), "INFO test: both") {
		t.Fatalf("info handler missing record: %q", infoBuf.String())
	}
	if strings.Count(debugBuf.String(), "\n") != 2 {
		t.Fatalf("expected two JSON records, got %q", debugBuf.String())
	}
	if !strings.Contains(debugBuf.String(), `"component":"test"`) {
		t.Fatalf("expected attrs propagated to JSON handler: %q", debugBuf.String())
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected multi handler enabled when any child is")
	}
}

func TestPrettyHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))
	logger.WithGroup("payload").Info("built", slog.Int("attachments", 2))
	if !strings.Contains(buf.String(), "payload.attachments=2") {
		t.Fatalf("expected flattened group key, got %q", buf.String())
	}
}
