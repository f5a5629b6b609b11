package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/catalog"
	"github.com/cobbinma/portfolio/internal/model"
)

func projectsCmd(a *app) *cobra.Command {
	var (
		techs   []string
		page    int
		preview bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects, filtered by technology",
		Example: `  portfolio projects
  portfolio projects --tech Go --tech Docker --page 2
  portfolio projects --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if page < 1 {
				return apperror.ValidationFailed("page", "page must be at least 1")
			}

			svc, set, err := a.openService()
			if err != nil {
				return err
			}
			defer set.Close()

			all, err := svc.ProjectsPage(cmd.Context(), preview)
			if err != nil {
				return err
			}

			browser := catalog.NewBrowser(*all, nil)
			browser.Select(technologies(techs))
			if page != browser.CurrentPage() {
				browser.SetPage(page)
			}
			view := browser.View()

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return printProjects(cmd.OutOrStdout(), view)
		},
	}

	// StringArray, not StringSlice: a technology name may contain a comma.
	cmd.Flags().StringArrayVarP(&techs, "tech", "t", nil, "only show projects with this technology (repeatable)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().BoolVar(&preview, "preview", false, "read draft content")
	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table or json")
	return cmd
}

func technologies(titles []string) []model.Technology {
	out := make([]model.Technology, 0, len(titles))
	for _, t := range titles {
		out = append(out, model.Technology{Title: &t})
	}
	return out
}

func techList(techs []model.Technology) string {
	names := make([]string, 0, len(techs))
	for _, t := range techs {
		if t.Title != nil {
			names = append(names, *t.Title)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func printProjects(w io.Writer, view catalog.Page) error {
	if len(view.Projects) == 0 {
		fmt.Fprintln(w, "(no projects on this page)")
	} else {
		rows := make([][]string, 0, len(view.Projects))
		for _, p := range view.Projects {
			rows = append(rows, []string{orDash(p.Title), techList(p.Technologies), orDash(p.Link)})
		}
		if err := writeTable(w, []string{"TITLE", "TECHNOLOGIES", "LINK"}, rows); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	if len(view.Selected) > 0 {
		fmt.Fprintf(w, "filter: %s\n", techList(view.Selected))
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d matching)\n", view.Page, view.PageCount, view.Total)
	return err
}
