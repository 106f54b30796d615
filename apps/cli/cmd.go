package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/attendance/client"
	"github.com/trezcool/attendance/core/attendance"
)

var errHelp = errors.New("help provided")

const dateLayout = "2006-01-02 15:04:05"

type commandLine struct {
	api interface {
		client.Creator
		client.Lister
	}
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  list - list attendance records")
	fmt.Fprintln(cli.out, "  add -name NAME [-status Present|Absent] - record a student's attendance")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listCmd.SetOutput(cli.out)

	addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
	addCmd.SetOutput(cli.out)
	addName := addCmd.String("name", "", "The student's name.")
	addStatus := addCmd.String("status", string(attendance.DefaultStatus), "Present or Absent.")

	switch args[1] {
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return cli.parseErr(err)
		}
		return cli.list()
	case "add":
		if err := addCmd.Parse(args[2:]); err != nil {
			return cli.parseErr(err)
		}
		if *addName == "" {
			addCmd.Usage()
			return errHelp
		}
		return cli.add(*addName, attendance.Status(*addStatus))
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) parseErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	return err
}

func (cli *commandLine) list() error {
	recs, err := client.NewRecordList(cli.api).Records(context.Background())
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Fprintln(cli.out, formatRecord(rec))
	}
	return nil
}

func (cli *commandLine) add(name string, status attendance.Status) error {
	form := client.NewForm(cli.api)
	form.StudentName = name
	form.Status = status

	rec, err := form.Submit(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s: %s\n", rec.ID, formatRecord(rec))
	return nil
}

func formatRecord(rec attendance.Record) string {
	return fmt.Sprintf("%s - %s - %s", rec.StudentName, rec.Status, rec.Date.In(time.Local).Format(dateLayout))
}
