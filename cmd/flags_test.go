package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"jpegbatch/internal/controller"
)

func TestParseMatte(t *testing.T) {
	for raw, want := range map[string]int{"black": 0, "White": 1, " background ": 2, "3": 3} {
		got, err := parseMatte(raw)
		if err != nil || got != want {
			t.Fatalf("parseMatte(%q) = %d, %v; want %d", raw, got, err, want)
		}
	}
	for _, raw := range []string{"", "grey", "4", "-1"} {
		if _, err := parseMatte(raw); err == nil {
			t.Fatalf("parseMatte(%q) accepted", raw)
		}
	}
}

func TestSettingFlagsOnlyChanged(t *testing.T) {
	var f settingFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--quality", "90", "--letterbox", "--folder", "out"}); err != nil {
		t.Fatal(err)
	}

	cmds, err := f.commands(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 3 {
		t.Fatalf("got %d commands: %#v", len(cmds), cmds)
	}
	abs, _ := filepath.Abs("out")
	if c, ok := cmds[0].(controller.ChooseFolder); !ok || c.Path != abs {
		t.Fatalf("first command %#v", cmds[0])
	}
	if c, ok := cmds[1].(controller.SetQuality); !ok || c.Value != 90 {
		t.Fatalf("second command %#v", cmds[1])
	}
	if c, ok := cmds[2].(controller.SetLetterbox); !ok || !c.On {
		t.Fatalf("third command %#v", cmds[2])
	}
}
