package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/campus-mailroom/mailroom-api/internal/admin"
	"github.com/campus-mailroom/mailroom-api/internal/crud"
	"github.com/campus-mailroom/mailroom-api/internal/dto"
	"github.com/campus-mailroom/mailroom-api/pkg/client"
)

var errUsage = errors.New("usage")

type cli struct {
	apiURL   string
	password string
	confirm  bool
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	api      *client.Client
}

func (c *cli) notifier() crud.Notifier {
	return crud.NotifierFunc(func(n crud.Notice) {
		fmt.Fprintf(c.errOut, "[%s] %s: %s\n", n.Kind, n.Title, n.Message)
	})
}

func (c *cli) connect(ctx context.Context) error {
	if c.api != nil {
		return nil
	}
	c.api = client.New(c.apiURL)
	if c.password == "" {
		return nil
	}
	_, err := c.api.Login(ctx, c.password)
	return err
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if args[0] == "panels" {
		return c.printSchemas()
	}
	if err := c.connect(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "students":
		panel, err := admin.NewStudentPanel(c.api, c.notifier())
		if err != nil {
			return err
		}
		return runPanel(ctx, c, panel, args[1:])
	case "staff":
		panel, err := admin.NewStaffPanel(c.api, c.notifier())
		if err != nil {
			return err
		}
		return runPanel(ctx, c, panel, args[1:])
	case "spend-categories":
		panel, err := admin.NewSpendCategoryPanel(c.api, c.notifier())
		if err != nil {
			return err
		}
		return runPanel(ctx, c, panel, args[1:])
	case "professors":
		panel, err := admin.NewProfessorPanel(c.api, c.notifier())
		if err != nil {
			return err
		}
		return runPanel(ctx, c, panel, args[1:])
	case "packages":
		return c.packages(ctx, args[1:])
	}
	return errUsage
}

func (c *cli) printSchemas() error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PANEL\tFIELD\tLABEL\tTYPE\tREQUIRED")
	for _, schema := range admin.Schemas() {
		for _, f := range schema.Fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", schema.Key, f.Name, f.Label, f.Type, f.Required)
		}
	}
	return w.Flush()
}

func runPanel[T any](ctx context.Context, c *cli, panel *crud.Panel[T], args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := panel.Load(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return printRows(c.out, panel)
	case "create":
		if err := setFields(panel, args[1:]); err != nil {
			return err
		}
		if err := panel.Submit(ctx); err != nil {
			return err
		}
		return printRows(c.out, panel)
	case "edit":
		if len(args) < 2 {
			return errUsage
		}
		row, err := findRow(panel, args[1])
		if err != nil {
			return err
		}
		if err := panel.Edit(row); err != nil {
			return err
		}
		if err := setFields(panel, args[2:]); err != nil {
			return err
		}
		if err := panel.Submit(ctx); err != nil {
			return err
		}
		return printRows(c.out, panel)
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		row, err := findRow(panel, args[1])
		if err != nil {
			return err
		}
		if err := panel.RequestDelete(row); err != nil {
			return err
		}
		if !c.confirm && !c.ask(fmt.Sprintf("Delete %s %s? [y/N] ", panel.Noun(), args[1])) {
			panel.CancelDelete()
			fmt.Fprintln(c.out, "cancelled")
			return nil
		}
		if err := panel.ConfirmDelete(ctx); err != nil {
			return err
		}
		return printRows(c.out, panel)
	}
	return errUsage
}

func (c *cli) ask(prompt string) bool {
	fmt.Fprint(c.out, prompt)
	line, _ := bufio.NewReader(c.in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func findRow[T any](panel *crud.Panel[T], id string) (T, error) {
	rows, err := panel.Rows()
	if err != nil {
		var zero T
		return zero, err
	}
	items := panel.Items()
	for i, row := range rows {
		if row.ID == id {
			return items[i], nil
		}
	}
	var zero T
	return zero, fmt.Errorf("no %s with id %s", strings.ToLower(panel.Noun()), id)
}

// setFields applies field=value pairs, converting each value to the field's type.
func setFields[T any](panel *crud.Panel[T], pairs []string) error {
	types := make(map[string]crud.FieldType, len(panel.Fields()))
	for _, f := range panel.Fields() {
		types[f.Name] = f.Type
	}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", pair)
		}
		value, err := parseValue(types[name], raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := panel.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func parseValue(t crud.FieldType, raw string) (interface{}, error) {
	switch t {
	case crud.FieldNumber:
		return strconv.ParseFloat(raw, 64)
	case crud.FieldCheckbox, crud.FieldRadio:
		switch strings.ToLower(raw) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		return strconv.ParseBool(raw)
	}
	return raw, nil
}

func printRows[T any](out io.Writer, panel *crud.Panel[T]) error {
	rows, err := panel.Rows()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := []string{"ID"}
	for _, f := range panel.Fields() {
		header = append(header, strings.ToUpper(f.Label))
	}
	header = append(header, "ACTIONS")
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		actions := row.Placeholder
		if actions == "" {
			var allowed []string
			if row.CanEdit {
				allowed = append(allowed, "edit")
			}
			if row.CanDelete {
				allowed = append(allowed, "delete")
			}
			actions = strings.Join(allowed, ",")
		}
		fmt.Fprintln(w, strings.Join(append(append([]string{row.ID}, row.Cells...), actions), "\t"))
	}
	return w.Flush()
}

func (c *cli) packages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		params := url.Values{}
		if len(args) > 1 {
			params.Set("status", args[1])
		}
		page, err := c.api.ListPackages(ctx, params)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tSTUDENT\tCARRIER\tTRACKING\tLOCATION")
		for _, p := range page.Data {
			student := p.StudentID
			if p.Student != nil {
				student = p.Student.FullName
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Status, student, deref(p.Carrier), deref(p.TrackingNumber), deref(p.Location))
		}
		fmt.Fprintf(w, "\npage %d of %d, %d total\n", page.Page, page.TotalPages, page.Total)
		return w.Flush()
	case "check-in":
		if len(args) < 3 {
			return errUsage
		}
		req := dto.CheckInRequest{EmployeeID: args[2]}
		if len(args) > 3 {
			location := strings.Join(args[3:], " ")
			req.Location = &location
		}
		pkg, err := c.api.CheckIn(ctx, args[1], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s %s\n", pkg.ID, pkg.Status, deref(pkg.Location))
		return nil
	case "check-out":
		if len(args) != 3 {
			return errUsage
		}
		pkg, err := c.api.CheckOut(ctx, args[1], dto.CheckOutRequest{EmployeeID: args[2]})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s\n", pkg.ID, pkg.Status)
		return nil
	}
	return errUsage
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
