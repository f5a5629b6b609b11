package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/model"
)

func homeCmd(a *app) *cobra.Command {
	var (
		preview bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "home",
		Short: "Print the home page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			svc, set, err := a.openService()
			if err != nil {
				return err
			}
			defer set.Close()

			home, err := svc.HomePage(cmd.Context(), preview)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), home)
			}
			return printHome(cmd.OutOrStdout(), home)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "read draft content")
	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table or json")
	return cmd
}

func printHome(w io.Writer, home *model.HomePage) error {
	var name []string
	for _, s := range []*string{home.FirstName, home.SecondName} {
		if s != nil && *s != "" {
			name = append(name, *s)
		}
	}
	fullName := "-"
	if len(name) > 0 {
		fullName = strings.Join(name, " ")
	}

	if err := writeTable(w, []string{"FIELD", "VALUE"}, [][]string{
		{"name", fullName},
		{"introduction", orDash(home.Introduction)},
		{"avatar", orDash(home.Avatar.URL)},
	}); err != nil {
		return err
	}

	if len(home.Socials) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	rows := make([][]string, 0, len(home.Socials))
	for _, s := range home.Socials {
		rows = append(rows, []string{orDash(s.Name), orDash(s.URL)})
	}
	return writeTable(w, []string{"SOCIAL", "URL"}, rows)
}
