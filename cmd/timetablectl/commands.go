package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/internal/service"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
)

func (a *app) templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "List and manage schedule templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates; the active one is marked with *",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			active := a.svc.Store.ActiveTemplate().ID
			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tNAME\tCOURSES")
			for _, tpl := range a.svc.Store.ListTemplates() {
				marker := ""
				if tpl.ID == active {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", marker, tpl.ID, tpl.Name, len(tpl.Courses))
			}
			return w.Flush()
		}),
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a template and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			tpl, err := a.svc.Store.CreateTemplate(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "created %s (%s)\n", tpl.Name, tpl.ID)
			return nil
		}),
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a template",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.svc.Store.RenameTemplate(cmd.Context(), args[0], args[1])
		}),
	}

	remove := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a template; the last template is kept",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.svc.Store.DeleteTemplate(cmd.Context(), args[0])
		}),
	}

	sel := &cobra.Command{
		Use:   "select <id>",
		Short: "Make a template active",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.svc.Store.SelectTemplate(cmd.Context(), args[0])
		}),
	}

	cmd.AddCommand(list, create, rename, remove, sel)
	return cmd
}

// courseFlags binds the editable course fields. slot fills start and end
// from a grid slot when they are not given.
type courseFlags struct {
	title     string
	kind      string
	start     string
	end       string
	slot      string
	location  string
	day       string
	professor string
}

func (f *courseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "course title")
	cmd.Flags().StringVar(&f.kind, "type", string(models.CourseTypeLecture), "lecture, lab, seminar, practice or exam")
	cmd.Flags().StringVar(&f.start, "start", "", "start time HH:MM")
	cmd.Flags().StringVar(&f.end, "end", "", "end time HH:MM")
	cmd.Flags().StringVar(&f.slot, "slot", "", "grid slot id supplying start and end")
	cmd.Flags().StringVar(&f.location, "location", "", "room or building")
	cmd.Flags().StringVar(&f.day, "day", "", "weekday index or name")
	cmd.Flags().StringVar(&f.professor, "professor", "", "teaching professor")
}

// apply overlays the flags the user set onto input.
func (f *courseFlags) apply(cmd *cobra.Command, layout models.Layout, input *dto.CourseInput) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		input.Title = f.title
	}
	if changed("type") || input.Type == "" {
		input.Type = models.CourseType(strings.ToLower(f.kind))
	}
	if changed("slot") {
		slot, ok := layout.Slot(f.slot)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown slot %q", f.slot))
		}
		input.StartTime, input.EndTime = slot.StartTime, slot.EndTime
	}
	if changed("start") {
		input.StartTime = f.start
	}
	if changed("end") {
		input.EndTime = f.end
	}
	if changed("location") {
		input.Location = f.location
	}
	if changed("day") {
		day, err := parseDay(layout, f.day)
		if err != nil {
			return err
		}
		input.DayOfWeek = day
	}
	if changed("professor") {
		input.Professor = f.professor
	}
	return nil
}

func (a *app) coursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List and edit courses of the active template",
	}

	var listDay string
	list := &cobra.Command{
		Use:   "list",
		Short: "List courses by day and start time",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			days := a.svc.Presenter.Agenda()
			if listDay != "" {
				day, err := parseDay(a.svc.Layout, listDay)
				if err != nil {
					return err
				}
				days = days[day : day+1]
			}
			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDAY\tTIME\tTITLE\tTYPE\tLOCATION\tPROFESSOR")
			for _, agenda := range days {
				for _, c := range agenda.Courses {
					fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s\t%s\t%s\t%s\n",
						c.ID, agenda.Day, c.StartTime, c.EndTime, c.Title, c.Type, c.Location, c.Professor)
				}
			}
			return w.Flush()
		}),
	}
	list.Flags().StringVar(&listDay, "day", "", "only this weekday (index or name)")

	addFlags := &courseFlags{}
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a course to the active template",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var input dto.CourseInput
			if err := addFlags.apply(cmd, a.svc.Layout, &input); err != nil {
				return err
			}
			course, err := a.svc.Store.AddCourse(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "added %s (%s)\n", course.Title, course.ID)
			return nil
		}),
	}
	addFlags.bind(add)

	updateFlags := &courseFlags{}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a course; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			existing, ok := a.svc.Store.Course(args[0])
			if !ok {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %q not found", args[0]))
			}
			input := dto.FromCourse(existing)
			if err := updateFlags.apply(cmd, a.svc.Layout, &input); err != nil {
				return err
			}
			_, err := a.svc.Store.UpdateCourse(cmd.Context(), args[0], input)
			return err
		}),
	}
	updateFlags.bind(update)

	remove := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a course",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.svc.Store.DeleteCourse(cmd.Context(), args[0])
		}),
	}

	var moveSlot, moveDay string
	move := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a course onto a grid cell",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, ok := a.svc.Store.Course(args[0]); !ok {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %q not found", args[0]))
			}
			day, err := parseDay(a.svc.Layout, moveDay)
			if err != nil {
				return err
			}
			return a.svc.Presenter.OnCourseDropped(cmd.Context(), args[0], moveSlot, day)
		}),
	}
	move.Flags().StringVar(&moveSlot, "slot", "", "target slot id")
	move.Flags().StringVar(&moveDay, "day", "", "target weekday (index or name)")
	_ = move.MarkFlagRequired("slot")
	_ = move.MarkFlagRequired("day")

	cmd.AddCommand(list, add, update, remove, move)
	return cmd
}

func (a *app) gridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the weekly grid of the active template",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			view := a.svc.Presenter.Grid()
			fmt.Fprintf(out(cmd), "%s (%s)\n", view.TemplateName, view.TemplateID)
			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "TIME\t%s\n", strings.Join(view.Days, "\t"))
			for _, row := range view.Rows {
				cells := make([]string, len(row.Cells))
				for i, cell := range row.Cells {
					titles := make([]string, len(cell.Courses))
					for j, c := range cell.Courses {
						titles[j] = fmt.Sprintf("%s [%s]", c.Title, c.Location)
					}
					cells[i] = strings.Join(titles, "; ")
					if cells[i] == "" {
						cells[i] = "-"
					}
				}
				fmt.Fprintf(w, "%s %s-%s\t%s\n", row.Slot.ID, row.Slot.StartTime, row.Slot.EndTime, strings.Join(cells, "\t"))
			}
			return w.Flush()
		}),
	}
}

func (a *app) agendaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agenda",
		Short: "Print each weekday's courses in start order",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			for _, day := range a.svc.Presenter.Agenda() {
				fmt.Fprintf(out(cmd), "%s\n", day.Day)
				if len(day.Courses) == 0 {
					fmt.Fprintln(out(cmd), "  no courses")
					continue
				}
				for _, c := range day.Courses {
					fmt.Fprintf(out(cmd), "  %s-%s  %s (%s) %s\n", c.StartTime, c.EndTime, c.Title, c.Type, c.Location)
				}
			}
			return nil
		}),
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active template as csv, pdf or xlsx",
		Long: `Renders the active template. Without --out the document is archived
under EXPORT_DIR; with --out it is written to that path ("-" for stdout).`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			parsed, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if output == "" {
				path, err := a.svc.Exports.Archive(parsed)
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), path)
				return nil
			}
			result, err := a.svc.Exports.Render(parsed)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = out(cmd).Write(result.Data)
				return err
			}
			if err := os.WriteFile(output, result.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(out(cmd), output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(service.ExportFormatCSV), "csv, pdf or xlsx")
	cmd.Flags().StringVarP(&output, "out", "o", "", "write to this path instead of EXPORT_DIR")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored timetable, including the legacy key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			return a.reset(cmd.Context(), cmd)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func (a *app) reset(ctx context.Context, cmd *cobra.Command) error {
	for _, key := range []string{a.cfg.Storage.Key, a.cfg.Storage.LegacyKey} {
		if key == "" {
			continue
		}
		if err := a.backend.Repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	fmt.Fprintf(out(cmd), "timetable reset on %s storage\n", a.backend.Driver)
	return nil
}

// parseDay accepts a zero-based weekday index or a day label from the layout.
func parseDay(layout models.Layout, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if idx, err := strconv.Atoi(raw); err == nil {
		if !layout.ValidDay(idx) {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day must be between 0 and %d", len(layout.Days)-1))
		}
		return idx, nil
	}
	for i, name := range layout.Days {
		if strings.EqualFold(name, raw) {
			return i, nil
		}
	}
	return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", raw))
}
