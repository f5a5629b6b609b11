package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/config"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/repository"
	"github.com/cobbinma/portfolio/internal/source"
)

// entryOutput is how a stored record is printed as JSON. The payload is
// embedded as JSON rather than the base64 a []byte would become.
type entryOutput struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	ContentType string          `json:"contentType,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func entriesCmd(a *app) *cobra.Command {
	var (
		kind   string
		limit  int
		offset int
		format string
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List the records in the sqlite store",
		Example: `  portfolio entries
  portfolio entries --kind Asset --limit 50
  portfolio entries --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			switch kind {
			case "", model.KindEntry, model.KindAsset:
			default:
				return apperror.ValidationFailed("kind", fmt.Sprintf("kind must be %s or %s", model.KindEntry, model.KindAsset))
			}
			if a.cfg.DBPath == "" {
				return config.ErrMissingDBPath
			}

			db, err := source.OpenStore(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.List(cmd.Context(), repository.ListOptions{Kind: kind, Limit: limit, Offset: offset})
			if err != nil {
				return err
			}

			if format == formatJSON {
				out := make([]entryOutput, 0, len(entries))
				for _, e := range entries {
					out = append(out, entryOutput{
						ID:          e.ID,
						Kind:        e.Kind,
						ContentType: e.ContentType,
						Payload:     json.RawMessage(e.Payload),
						UpdatedAt:   e.UpdatedAt,
					})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only list Entry or Asset records")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum records to list (at most 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table or json")
	return cmd
}

func printEntries(w io.Writer, entries []model.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "(no entries stored)")
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		contentType := e.ContentType
		if contentType == "" {
			contentType = "-"
		}
		rows = append(rows, []string{e.Kind, e.ID, contentType, e.UpdatedAt.UTC().Format(time.DateTime)})
	}
	return writeTable(w, []string{"KIND", "ID", "CONTENT TYPE", "UPDATED"}, rows)
}
