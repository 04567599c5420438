package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const dateLayout = "02.01.2006"

var (
	boldStyle = lipgloss.NewStyle().Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func printLine(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}

func printInfo(cmd *cobra.Command, format string, a ...any) {
	printLine(cmd, infoStyle.Render(fmt.Sprintf(format, a...)))
}

func printOK(cmd *cobra.Command, format string, a ...any) {
	printLine(cmd, okStyle.Render(fmt.Sprintf(format, a...)))
}

func printWarn(cmd *cobra.Command, format string, a ...any) {
	printLine(cmd, warnStyle.Render(fmt.Sprintf(format, a...)))
}

func printErr(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), errStyle.Render(fmt.Sprintf(format, a...)))
}
