package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/coltype/internal/core"
	"github.com/JonMunkholm/coltype/internal/core/coltype"
	"github.com/spf13/cobra"
)

// Report is the classification of one file.
type Report struct {
	File    string                 `json:"file" yaml:"file"`
	Rows    int                    `json:"rows" yaml:"rows"`
	Columns []coltype.ColumnResult `json:"columns" yaml:"columns"`
}

func newClassifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Classify the columns of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(a.v.GetString("output"))
			if err != nil {
				return err
			}
			svc := core.NewService(nil, core.Options{
				MaxConcurrent: 1,
				Classify: coltype.Options{
					SampleSize: a.v.GetInt("sample_size"),
					Seed:       a.v.GetUint64("seed"),
				},
			})

			reports, failed := a.classifyAll(cmd.Context(), svc, args)
			if err := writeReports(a.out, format, reports); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "table", "output format: table, json, yaml")
	f.Int("sample-size", 10, "values sampled by the permissive date check")
	f.Uint64("seed", 0, "sampling seed; 0 draws a fresh sample each run")
	_ = a.v.BindPFlag("output", f.Lookup("output"))
	_ = a.v.BindPFlag("sample_size", f.Lookup("sample-size"))
	_ = a.v.BindPFlag("seed", f.Lookup("seed"))
	return cmd
}

// classifyAll classifies each path in order. A failing file is reported on
// errOut and skipped.
func (a *app) classifyAll(ctx context.Context, svc *core.Service, paths []string) ([]Report, int) {
	if ctx == nil {
		ctx = context.Background()
	}
	reports := make([]Report, 0, len(paths))
	failed := 0
	for _, path := range paths {
		r, err := classifyFile(ctx, svc, path)
		if err != nil {
			failed++
			a.log.Error("classify failed", "file", path, "error", err)
			msg := err.Error()
			if core.IsUserFacing(err) {
				msg = core.FormatUserError(err)
			}
			fmt.Fprintf(a.errOut, "%s: %s\n", path, msg)
			continue
		}
		reports = append(reports, r)
	}
	return reports, failed
}

func classifyFile(ctx context.Context, svc *core.Service, path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	resp, err := svc.ClassifyUpload(ctx, filepath.Base(path), f, size)
	if err != nil {
		return Report{}, err
	}
	return Report{File: path, Rows: resp.Rows, Columns: resp.Details}, nil
}
