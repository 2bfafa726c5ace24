package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := stderr
	stderr = buf
	t.Cleanup(func() { stderr = prev })
	return buf
}

func TestConsoleHandlerWritesAttrs(t *testing.T) {
	buf := captureStderr(t)
	Init(Options{Level: "debug"})

	WithOperation(WithComponent("pipeline"), "write").Debug("exported", slog.String("dest", "/tmp/a b.jpg"), slog.Int("width", 1000))

	out := buf.String()
	for _, want := range []string{"DBG exported", "component=pipeline", "op=write", `dest="/tmp/a b.jpg"`, "width=1000", "app=jpegbatch"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureStderr(t)
	Init(Options{Level: "warn"})

	L().Info("hidden")
	L().Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "WRN shown") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := captureStderr(t)
	Init(Options{Level: "info", Format: "json"})

	L().Info("hello", slog.Int("n", 3))

	if !strings.Contains(buf.String(), `"msg":"hello"`) || !strings.Contains(buf.String(), `"n":3`) {
		t.Fatalf("unexpected json output: %q", buf.String())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "TRUE")
	t.Setenv(EnvFile, "/tmp/jpegbatch.log")

	opts := FromEnv()
	if opts.Level != "debug" || opts.Format != "json" || !opts.AddSource || opts.File != "/tmp/jpegbatch.log" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
