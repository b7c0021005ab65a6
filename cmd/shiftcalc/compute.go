package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"
)

type computeOptions struct {
	punchesPath   string
	employeesPath string
	configPath    string
	from          string
	to            string
	status        string
	devices       []string
	departments   []string
	search        string
	format        string
	out           string
	now           string
}

type computeOutput struct {
	Config  attendance.ShiftConfig                 `json:"config"`
	Records []attendance.ProcessedAttendanceRecord `json:"records"`
	Summary []attendance.EmployeeSummary           `json:"summary"`
}

func newComputeCmd() *cobra.Command {
	var opts computeOptions

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute shift-day records from a punch export",
		Example: `  shiftcalc compute --punches punches.json --employees employees.yaml --from 2024-03-01 --to 2024-03-31
  shiftcalc compute --punches punches.json --from 2024-03-14 --to 2024-03-14 --format xlsx --out march.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.punchesPath, "punches", "", "Punch export (JSON array, keyed object, {data:[...]} or {docs:[...]}) (required)")
	cmd.Flags().StringVar(&opts.employeesPath, "employees", "", "Employee directory (JSON or YAML list)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Shift config YAML file")
	cmd.Flags().StringVar(&opts.from, "from", "", "First shift-day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last shift-day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.status, "status", string(attendance.StatusAll), "Status filter: all, working, missed, complete")
	cmd.Flags().StringSliceVar(&opts.devices, "devices", nil, "Only count punches from these devices")
	cmd.Flags().StringSliceVar(&opts.departments, "departments", nil, "Only include these departments")
	cmd.Flags().StringVar(&opts.search, "search", "", "Match employee name or code")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "Output format: json or xlsx")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&opts.now, "now", "", "Evaluate open sessions at this RFC3339 instant (default: current time)")
	_ = cmd.Flags().MarkHidden("now")

	_ = cmd.MarkFlagRequired("punches")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runCompute(stdout io.Writer, opts computeOptions) error {
	if opts.format != formatJSON && opts.format != formatXLSX {
		return fmt.Errorf("--format must be %q or %q", formatJSON, formatXLSX)
	}

	query := attendance.RecordQuery{
		StartDate:   opts.from,
		EndDate:     opts.to,
		Devices:     opts.devices,
		Departments: opts.departments,
		Status:      attendance.RecordStatus(opts.status),
		Search:      opts.search,
	}
	if err := query.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if opts.now != "" {
		parsed, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = parsed
	}

	fc, err := loadFileConfig(opts.configPath)
	if err != nil {
		return err
	}
	pipelineOpts, err := fc.options(now)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(opts.punchesPath)
	if err != nil {
		return fmt.Errorf("failed to read punches: %w", err)
	}
	employees, err := loadEmployees(opts.employeesPath)
	if err != nil {
		return err
	}

	records := attendanceService.Run(source, employees, query.StartDate, query.EndDate, pipelineOpts, query.Filter())
	summaries := attendanceService.SummarizeRecords(records)

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if opts.format == formatXLSX {
		return attendanceService.WriteTimesheet(w, records, summaries)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(computeOutput{
		Config:  pipelineOpts.Config,
		Records: records,
		Summary: summaries,
	})
}
