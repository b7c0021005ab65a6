package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	"github.com/spf13/cobra"
)

type importOptions struct {
	punchesPath   string
	employeesPath string
	configPath    string
	sqlitePath    string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a punch export in a SQLite database",
		Long: `import normalizes a punch export and upserts it into a SQLite database
that the API server can read with STORAGE_DRIVER=sqlite.

Punch dates are resolved in the data timezone from --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.punchesPath, "punches", "", "Punch export to import (required)")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database path, created if missing (required)")
	cmd.Flags().StringVar(&opts.employeesPath, "employees", "", "Employee directory to import alongside (JSON or YAML list)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Shift config YAML file")

	_ = cmd.MarkFlagRequired("punches")
	_ = cmd.MarkFlagRequired("sqlite")

	return cmd
}

func runImport(ctx context.Context, stdout io.Writer, opts importOptions) error {
	fc, err := loadFileConfig(opts.configPath)
	if err != nil {
		return err
	}
	pipelineOpts, err := fc.options(time.Now())
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(opts.punchesPath)
	if err != nil {
		return fmt.Errorf("failed to read punches: %w", err)
	}
	employees, err := loadEmployees(opts.employeesPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(opts.sqlitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	employeeRepo := sqlite.NewEmployeeRepository(db)
	svc := attendanceService.NewAttendanceService(
		sqlite.NewPunchRepository(db),
		employeeRepo,
		pipelineOpts.Config,
		pipelineOpts.DataLocation,
		pipelineOpts.UserLocation,
		nil,
	)

	result, err := svc.IngestPunches(ctx, raw)
	if err != nil {
		return err
	}

	storedEmployees := 0
	if len(employees) > 0 {
		storedEmployees, err = employeeRepo.SaveEmployees(ctx, employees)
		if err != nil {
			return fmt.Errorf("failed to store employees: %w", err)
		}
	}

	fmt.Fprintf(stdout, "received=%d stored=%d skipped=%d employees=%d\n",
		result.Received, result.Stored, result.Skipped, storedEmployees)
	return nil
}
