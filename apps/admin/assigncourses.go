package main

import (
	"context"
	"strings"

	"github.com/trezcool/elimu/core"
)

// assignCourses reconciles the user's active enrollments against the given
// comma-separated course IDs. The end state equals exactly the given set.
func (cli *commandLine) assignCourses(email, courseIDs string) error {
	ctx := context.Background()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}

	desired := make([]string, 0)
	for _, id := range strings.Split(courseIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			desired = append(desired, id)
		}
	}
	return cli.enrollSvc.Reconcile(ctx, usr.ID, desired)
}
