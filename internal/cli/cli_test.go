package cli_test

import (
	"errors"
	"flag"
	"reflect"
	"testing"
	"time"

	"github.com/raysh454/fetchbutton/internal/cli"
)

func TestParseArgs_Defaults(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs(nil, nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Mode != cli.ModeClick {
		t.Errorf("Mode = %q, want click", args.Mode)
	}
	if args.Clicks != 1 {
		t.Errorf("Clicks = %d, want 1", args.Clicks)
	}
	if args.Timeout >= 0 {
		t.Errorf("Timeout = %v, want negative (use default)", args.Timeout)
	}
	if args.Target != "" || args.Backend != "" || args.Listen != "" {
		t.Errorf("expected empty overrides, got %+v", args)
	}
}

func TestParseArgs_AllFlags(t *testing.T) {
	t.Parallel()
	raw := []string{
		"-mode", "SERVE",
		"-target", " http://localhost:9000/api/redirect ",
		"-backend", "chromedp",
		"-timeout", "5s",
		"-origin", "http://localhost:5500",
		"-show-browser",
		"-listen", ":6000",
		"-clicks", "3",
		"-interactive",
		"-log-level", "debug",
	}
	args, err := cli.ParseArgs(raw, nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	want := cli.CLIArgs{
		Mode:        cli.ModeServe,
		Target:      "http://localhost:9000/api/redirect",
		Backend:     "chromedp",
		Timeout:     5 * time.Second,
		Origin:      "http://localhost:5500",
		ShowBrowser: true,
		Listen:      ":6000",
		Clicks:      3,
		Interactive: true,
		LogLevel:    "debug",
	}
	args.RawArgs = nil
	if !reflect.DeepEqual(*args, want) {
		t.Errorf("ParseArgs = %+v\nwant %+v", *args, want)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad mode", args: []string{"-mode", "nope"}},
		{name: "negative clicks", args: []string{"-clicks", "-1"}},
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "positional", args: []string{"extra"}},
		{name: "bad duration", args: []string{"-timeout", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := cli.ParseArgs(tt.args, nil); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	t.Parallel()
	_, err := cli.ParseArgs([]string{"-h"}, nil)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}
