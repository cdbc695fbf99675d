/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnmsf/internal/iosearch"
	"github.com/gnames/gnmsf/pkg/config"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/errcode"
	"github.com/spf13/cobra"
)

// getModelsCmd returns the models command.
func getModelsCmd() *cobra.Command {
	var (
		modelsPath string
		modelIDs   []string
		check      bool
	)

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List and check model definitions",
		Long: `Load model definitions and print a table of valid models with
their quorum and spacing rules. Definitions that cannot be used are listed
with the reason they were skipped.

Examples:
  # List models from the default models directory
  gnmsf models

  # Check a directory, fail if any model is invalid
  gnmsf models -m models/ --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("models") {
				cfg.Update([]config.Option{config.OptInputModelsPath(modelsPath)})
			}
			err := runModels(cmd.OutOrStdout(), cfg.ModelsPath(), modelIDs, check)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	modelsCmd.Flags().StringVarP(&modelsPath, "models", "m", "",
		"model definitions file or directory")
	modelsCmd.Flags().StringSliceVarP(&modelIDs, "model-ids", "M", []string{},
		"models or model families to show (empty = all)")
	modelsCmd.Flags().BoolVarP(&check, "check", "c", false,
		"fail when some definitions are invalid")

	return modelsCmd
}

func runModels(w io.Writer, path string, ids []string, check bool) error {
	start := time.Now()
	cat, ds, err := iosearch.LoadCatalog(path, ids)
	if err != nil {
		return err
	}

	if err = writeModels(w, cat, ds); err != nil {
		return err
	}

	gn.Info("Loaded <em>%d</em> models, skipped %d in %s",
		cat.Len(), len(ds), elapsed(start))

	if check && len(ds) > 0 {
		return &gn.Error{
			Code: errcode.ModelValidationError,
			Msg:  "<warn>%d model definitions are invalid</warn>",
			Vars: []any{len(ds)},
			Err:  errors.New("invalid model definitions"),
		}
	}
	return nil
}

func writeModels(w io.Writer, cat *model.Catalog, ds []diag.Diagnostic) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tGENES\tMANDATORY\tACCESSORY\tQUORUM\tMAX_SPACE\tMULTI_LOCI\tLONERS")
	for _, m := range cat.Models() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d/%d\t%d\t%t\t%t\n",
			m.ID, len(m.Genes),
			m.GroupCount(model.Mandatory), m.GroupCount(model.Accessory),
			m.MinMandatory, m.MinTotal, m.InterGeneMaxSpace,
			m.MultiLocus, m.HasLoners(),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(ds) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SKIPPED:")
	for _, d := range ds {
		fmt.Fprintf(w, "  %s (%s): %s\n", d.ModelID, d.Kind,
			strings.TrimSpace(d.Details))
	}
	return nil
}

func elapsed(start time.Time) string {
	return gnfmt.TimeString(time.Since(start).Seconds())
}
