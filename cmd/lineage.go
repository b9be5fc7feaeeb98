package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/citeworks/ghcite/internal/gitlocal"
	"github.com/citeworks/ghcite/internal/lineage"
)

var (
	lineageForkRef   string
	lineageParentRef string
)

var lineageCmd = &cobra.Command{
	Use:   "lineage <fork-path> <parent-path>",
	Short: "Resolve fork lineage between two local clones",
	Long: `Lineage walks the commit histories of two local working copies and
reports their most recent common commit and the parent tag that commit
first shipped in. No API access is needed; tags stand in for releases.

Examples:
  ghcite lineage ./myfork ./upstream
  ghcite lineage ./myfork ./upstream --parent-ref refs/heads/develop`,
	Args: cobra.ExactArgs(2),
	RunE: runLineage,
}

func init() {
	rootCmd.AddCommand(lineageCmd)
	lineageCmd.Flags().StringVar(&lineageForkRef, "ref", "", "Fork ref to walk (default HEAD)")
	lineageCmd.Flags().StringVar(&lineageParentRef, "parent-ref", "", "Parent ref to walk (default HEAD)")
}

func runLineage(cmd *cobra.Command, args []string) error {
	forkRepo, err := gitlocal.Open(args[0])
	if err != nil {
		return err
	}
	parentRepo, err := gitlocal.Open(args[1])
	if err != nil {
		return err
	}

	forkFetch, err := gitlocal.CommitPages(forkRepo, lineageForkRef)
	if err != nil {
		return err
	}
	parentFetch, err := gitlocal.CommitPages(parentRepo, lineageParentRef)
	if err != nil {
		return err
	}
	tagFetch, err := gitlocal.TagPages(parentRepo)
	if err != nil {
		return err
	}

	result, err := lineage.Resolve(cmd.Context(),
		lineage.NewHistory(forkFetch),
		lineage.NewHistory(parentFetch),
		lineage.NewReleaseHistory(tagFetch))
	if err != nil {
		return err
	}

	printLineage(result)
	return nil
}

func printLineage(result lineage.Result) {
	var (
		labelColor = lipgloss.Color("#F780FF")
		valueColor = lipgloss.Color("#E9E9F4")
		dimColor   = lipgloss.Color("#6272A4")
	)

	labelStyle := lipgloss.NewStyle().Foreground(labelColor).Bold(true).Width(16)
	valueStyle := lipgloss.NewStyle().Foreground(valueColor)
	dimStyle := lipgloss.NewStyle().Foreground(dimColor).Italic(true)

	if result.Common == nil {
		fmt.Println(dimStyle.Render("No common commit found; the histories are unrelated."))
		return
	}

	fmt.Println(labelStyle.Render("COMMON COMMIT") + valueStyle.Render(result.Common.ID))
	fmt.Println(labelStyle.Render("COMMITTED") + valueStyle.Render(result.Common.CommittedAt.Format("Jan 02 2006, 15:04")))

	if result.ParentRelease == nil {
		fmt.Println(dimStyle.Render("No parent tag contains the common commit."))
		return
	}

	fmt.Println(labelStyle.Render("PARENT RELEASE") + valueStyle.Render(result.ParentRelease.TagName))
	fmt.Println(labelStyle.Render("TAGGED COMMIT") + valueStyle.Render(result.ParentRelease.CommitID))
}
