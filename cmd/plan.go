package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jpegbatch/internal/controller"
	"jpegbatch/internal/host"
	"jpegbatch/internal/log"
	"jpegbatch/internal/pipeline"
	"jpegbatch/internal/settings"
	"jpegbatch/internal/tui"
)

var planFlags settingFlags

var planCmd = &cobra.Command{
	Use:   "plan [flags] <file|dir>...",
	Short: "Show what export would write without writing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := planFlags.commands(cmd)
		if err != nil {
			return err
		}
		ws, err := openDocuments(args, host.SilentPrompter{}, log.WithComponent("host"))
		if err != nil {
			return err
		}
		store, release, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer release()

		s := settings.Load(store, fallbackFolder(ws), log.WithComponent("plan"))
		for _, c := range overrides {
			s = controller.Apply(s, c)
		}

		fmt.Fprintln(os.Stdout, tui.RenderSummary([]tui.SummaryRow{
			{Label: "Export folder", Value: tui.TruncatePath(s.ExportFolder)},
			{Label: "Quality / max size", Value: fmt.Sprintf("%d / %dpx", s.JPEGQuality, s.MaxImageSize)},
			{Label: "Matte", Value: s.MatteName()},
		}))

		for i, doc := range ws.Documents() {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			dest := pipeline.Destination(s.ExportFolder, doc.Name())
			fmt.Fprintf(os.Stdout, "%s\n", planFileStyle.Render(tui.TruncatePath(doc.Path())))

			fit := pipeline.Fit(doc.Width(), doc.Height(), s.MaxImageSize)
			size := fmt.Sprintf("%d×%d → %d×%d (%s)", doc.Width(), doc.Height(), fit.Width, fit.Height, fit.Method)
			if s.Letterbox {
				size += fmt.Sprintf(", letterboxed to %d×%d", s.MaxImageSize, s.MaxImageSize)
			}
			planLine("size", size, planValueStyle)
			planLine("colour", fmt.Sprintf("%s %d-bit %q → RGB 8-bit sRGB", doc.Mode(), doc.BitsPerChannel(), doc.Profile()), planValueStyle)
			if meta := doc.SourceMetadata(); meta.Tags > 0 {
				dropped := fmt.Sprintf("%d EXIF tags not carried over", meta.Tags)
				if sensitive := meta.Sensitive(); len(sensitive) > 0 {
					dropped += " (" + strings.Join(sensitive, ", ") + ")"
				}
				planLine("metadata", dropped, planDimStyle)
			}

			switch {
			case host.SamePath(dest, doc.Path()):
				planLine("target", tui.TruncatePath(dest)+" (is the source, export would stop here)", planWarnStyle)
			case host.Exists(dest) && !s.SilentOverwrite:
				planLine("target", tui.TruncatePath(dest)+" (exists, will ask)", planWarnStyle)
			case host.Exists(dest):
				planLine("target", tui.TruncatePath(dest)+" (will be replaced)", planValueStyle)
			default:
				planLine("target", tui.TruncatePath(dest), planValueStyle)
			}
		}
		return nil
	},
}

func planLine(category, value string, style lipgloss.Style) {
	fmt.Fprintf(os.Stdout, "  %s %s %s\n",
		planBulletStyle.Render("-"),
		planCategoryStyle.Render(category+":"),
		style.Render(value),
	)
}

var (
	planFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	planCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	planValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	planWarnStyle     = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	planDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	planBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	planFlags.register(planCmd)
	rootCmd.AddCommand(planCmd)
}
