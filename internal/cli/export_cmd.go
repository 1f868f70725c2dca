package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/velo/internal/service"
)

type exportDoc struct {
	Name      string        `yaml:"name"`
	Status    string        `yaml:"status"`
	Goal      exportGoal    `yaml:"goal"`
	StartDate string        `yaml:"start_date"`
	Volume    exportVolume  `yaml:"volume"`
	Phases    []exportPhase `yaml:"phases"`
	Weeks     []exportWeek  `yaml:"weeks"`
	Sources   []string      `yaml:"sources,omitempty"`
}

type exportGoal struct {
	Type        string  `yaml:"type"`
	Description string  `yaml:"description,omitempty"`
	StartFTP    float64 `yaml:"start_ftp"`
	TargetFTP   float64 `yaml:"target_ftp"`
	TargetDate  string  `yaml:"target_date"`
}

type exportVolume struct {
	HoursPerWeek    float64 `yaml:"hours_per_week"`
	SessionsPerWeek int     `yaml:"sessions_per_week"`
}

type exportPhase struct {
	Name         string             `yaml:"name"`
	Weeks        string             `yaml:"weeks"`
	StressMin    float64            `yaml:"stress_min"`
	StressMax    float64            `yaml:"stress_max"`
	ZoneEmphasis map[string]float64 `yaml:"zone_emphasis"`
	Purpose      string             `yaml:"purpose,omitempty"`
}

type exportWeek struct {
	Number       int      `yaml:"number"`
	StartDate    string   `yaml:"start_date"`
	Phase        string   `yaml:"phase"`
	Recovery     bool     `yaml:"recovery,omitempty"`
	Status       string   `yaml:"status"`
	Baseline     float64  `yaml:"baseline_stress"`
	TargetStress *float64 `yaml:"target_stress,omitempty"`
	ActualStress *float64 `yaml:"actual_stress,omitempty"`
}

func buildExport(v *service.ProgramView) exportDoc {
	p := v.Program
	doc := exportDoc{
		Name:   p.Name,
		Status: string(p.Status),
		Goal: exportGoal{
			Type:        string(p.Goal.Type),
			Description: p.Goal.Description,
			StartFTP:    p.Goal.StartFTP,
			TargetFTP:   p.Goal.TargetFTP,
			TargetDate:  p.Goal.TargetDate.Format(dateLayout),
		},
		StartDate: p.StartDate.Format(dateLayout),
		Volume:    exportVolume{HoursPerWeek: p.Volume.HoursPerWeek, SessionsPerWeek: p.Volume.SessionsPerWeek},
	}
	if p.Skeleton != nil {
		for _, ph := range p.Skeleton.Phases {
			zones := make(map[string]float64, len(ph.ZoneEmphasis))
			for z, w := range ph.ZoneEmphasis {
				zones[string(z)] = w
			}
			doc.Phases = append(doc.Phases, exportPhase{
				Name:         string(ph.Name),
				Weeks:        fmt.Sprintf("%d-%d", ph.StartWeek, ph.EndWeek),
				StressMin:    ph.Stress.Min,
				StressMax:    ph.Stress.Max,
				ZoneEmphasis: zones,
				Purpose:      ph.Purpose,
			})
		}
		for _, c := range p.Skeleton.Citations {
			doc.Sources = append(doc.Sources, c.Source)
		}
	}
	for _, w := range v.Weeks {
		ew := exportWeek{
			Number:       w.WeekNumber,
			StartDate:    w.StartDate.Format(dateLayout),
			Phase:        string(w.Phase),
			Recovery:     w.IsRecovery,
			Status:       string(w.Status),
			ActualStress: w.ActualStress,
		}
		if p.Skeleton != nil {
			ew.Baseline = p.Skeleton.PlannedStress(w.WeekNumber)
		}
		if w.Planned() {
			ew.TargetStress = &w.TargetStress
		}
		doc.Weeks = append(doc.Weeks, ew)
	}
	return doc
}

func writeExport(w io.Writer, v *service.ProgramView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildExport(v)); err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	return enc.Close()
}

func newProgramExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <program>",
		Short: "Export a program's plan as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx(cmd)
			id, err := resolveProgramID(ctx, app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Services.Programs.Get(ctx, id)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return writeExport(cmd.OutOrStdout(), view)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := writeExport(f, view); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", view.Program.Name, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
