package commands

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"reflect"
	"strings"
	"testing"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestExecute(t *testing.T) {
	r := NewRegistry("glfwcanvas")

	var frames int
	var ran string
	snap := newFlagSet("snapshot")
	snap.IntVar(&frames, "frames", 1, "")
	r.Register("snapshot", "render offscreen", snap, func() error {
		ran = "snapshot"
		return nil
	})
	r.Register("run", "open a window", newFlagSet("run"), func() error {
		ran = "run"
		return nil
	})

	if err := r.Execute([]string{"snapshot", "-frames", "3"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ran != "snapshot" || frames != 3 {
		t.Errorf("ran %q with frames=%d", ran, frames)
	}

	if err := r.Execute(nil); err == nil {
		t.Error("Execute(nil) without default error = nil")
	}
	r.SetDefault("run")
	if err := r.Execute(nil); err != nil || ran != "run" {
		t.Errorf("Execute(nil) = %v, ran %q", err, ran)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry("glfwcanvas")
	boom := errors.New("boom")
	r.Register("fail", "", newFlagSet("fail"), func() error { return boom })

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown", []string{"paint"}, ErrUnknownCommand},
		{"bad flag", []string{"fail", "-nope"}, nil},
		{"run error", []string{"fail"}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Execute(tt.args)
			if err == nil {
				t.Fatal("Execute() error = nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNamesAndUsage(t *testing.T) {
	r := NewRegistry("glfwcanvas")
	r.Register("run", "open a window", newFlagSet("run"), func() error { return nil })
	r.Register("config", "write defaults", newFlagSet("config"), func() error { return nil })

	if got, want := r.Names(), []string{"config", "run"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	var buf bytes.Buffer
	r.Usage(&buf)
	out := buf.String()
	for _, want := range []string{"usage: glfwcanvas", "config", "write defaults", "open a window"} {
		if !strings.Contains(out, want) {
			t.Errorf("Usage() missing %q:\n%s", want, out)
		}
	}
}
