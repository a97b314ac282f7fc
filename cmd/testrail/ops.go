package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/testrail-gateway/pkg/testrail"
)

// opSpec declares one CLI verb mapped onto a client call.
type opSpec struct {
	use   string
	short string
	// args names the required positional ids; optional names trailing ones.
	args     []string
	optional []string
	filters  bool
	params   bool
	call     func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, params any) *testrail.Future
}

var caseOps = []opSpec{
	{use: "get", short: "Get a test case", args: []string{"case-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Cases.GetCase(ctx, ids[0])
		}},
	{use: "list", short: "List test cases of a project", args: []string{"project-id"}, optional: []string{"suite-id", "section-id"}, filters: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Cases.GetCases(ctx, ids[0], ids[1], ids[2], f)
		}},
	{use: "add", short: "Add a test case to a section", args: []string{"section-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Cases.AddCase(ctx, ids[0], p)
		}},
	{use: "update", short: "Update a test case", args: []string{"case-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Cases.UpdateCase(ctx, ids[0], p)
		}},
	{use: "delete", short: "Delete a test case", args: []string{"case-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Cases.DeleteCase(ctx, ids[0])
		}},
}

var projectOps = []opSpec{
	{use: "get", short: "Get a project", args: []string{"project-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Projects.GetProject(ctx, ids[0])
		}},
	{use: "list", short: "List projects", filters: true,
		call: func(ctx context.Context, c *testrail.Client, _ []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Projects.GetProjects(ctx, f)
		}},
	{use: "add", short: "Add a project", params: true,
		call: func(ctx context.Context, c *testrail.Client, _ []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Projects.AddProject(ctx, p)
		}},
	{use: "update", short: "Update a project", args: []string{"project-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Projects.UpdateProject(ctx, ids[0], p)
		}},
	{use: "delete", short: "Delete a project", args: []string{"project-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Projects.DeleteProject(ctx, ids[0])
		}},
}

var resultOps = []opSpec{
	{use: "list", short: "List results of a test", args: []string{"test-id"}, filters: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Results.GetResults(ctx, ids[0], f)
		}},
	{use: "for-case", short: "List results of a case within a run", args: []string{"run-id", "case-id"}, filters: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Results.GetResultsForCase(ctx, ids[0], ids[1], f)
		}},
	{use: "for-run", short: "List results of a run", args: []string{"run-id"}, filters: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Results.GetResultsForRun(ctx, ids[0], f)
		}},
	{use: "add", short: "Add a result to a test", args: []string{"test-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Results.AddResult(ctx, ids[0], p)
		}},
	{use: "add-for-case", short: "Add a result to a case within a run", args: []string{"run-id", "case-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Results.AddResultForCase(ctx, ids[0], ids[1], p)
		}},
	{use: "add-bulk", short: "Add results for several tests of a run", args: []string{"run-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Results.AddResults(ctx, ids[0], p)
		}},
	{use: "add-for-cases", short: "Add results for several cases of a run", args: []string{"run-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Results.AddResultsForCases(ctx, ids[0], p)
		}},
}

var runOps = []opSpec{
	{use: "get", short: "Get a test run", args: []string{"run-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Runs.GetRun(ctx, ids[0])
		}},
	{use: "list", short: "List test runs of a project", args: []string{"project-id"}, filters: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Runs.GetRuns(ctx, ids[0], f)
		}},
	{use: "add", short: "Add a test run to a project", args: []string{"project-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Runs.AddRun(ctx, ids[0], p)
		}},
	{use: "update", short: "Update a test run", args: []string{"run-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Runs.UpdateRun(ctx, ids[0], p)
		}},
	{use: "close", short: "Close a test run", args: []string{"run-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Runs.CloseRun(ctx, ids[0])
		}},
	{use: "delete", short: "Delete a test run", args: []string{"run-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Runs.DeleteRun(ctx, ids[0])
		}},
}

var suiteOps = []opSpec{
	{use: "get", short: "Get a test suite", args: []string{"suite-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Suites.GetSuite(ctx, ids[0])
		}},
	{use: "list", short: "List test suites of a project", args: []string{"project-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Suites.GetSuites(ctx, ids[0])
		}},
	{use: "add", short: "Add a test suite to a project", args: []string{"project-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Suites.AddSuite(ctx, ids[0], p)
		}},
	{use: "update", short: "Update a test suite", args: []string{"suite-id"}, params: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, p any) *testrail.Future {
			return c.Suites.UpdateSuite(ctx, ids[0], p)
		}},
	{use: "delete", short: "Delete a test suite", args: []string{"suite-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Suites.DeleteSuite(ctx, ids[0])
		}},
}

var testOps = []opSpec{
	{use: "get", short: "Get a test", args: []string{"test-id"},
		call: func(ctx context.Context, c *testrail.Client, ids []int64, _ testrail.Filters, _ any) *testrail.Future {
			return c.Tests.GetTest(ctx, ids[0])
		}},
	{use: "list", short: "List tests of a run", args: []string{"run-id"}, filters: true,
		call: func(ctx context.Context, c *testrail.Client, ids []int64, f testrail.Filters, _ any) *testrail.Future {
			return c.Tests.GetTests(ctx, ids[0], f)
		}},
}

func newGroupCmd(name, short string, s *session, ops []opSpec) *cobra.Command {
	group := &cobra.Command{
		Use:   name,
		Short: short,
	}
	for _, op := range ops {
		group.AddCommand(newOpCmd(s, op))
	}
	return group
}

func newOpCmd(s *session, op opSpec) *cobra.Command {
	var (
		filterPairs []string
		paramsPath  string
	)

	use := op.use
	for _, a := range op.args {
		use += " <" + a + ">"
	}
	for _, a := range op.optional {
		use += " [" + a + "]"
	}

	cmd := &cobra.Command{
		Use:         use,
		Short:       op.short,
		Args:        cobra.RangeArgs(len(op.args), len(op.args)+len(op.optional)),
		Annotations: map[string]string{needsAnnotation: needsAPI},
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args, len(op.args)+len(op.optional))
			if err != nil {
				return err
			}

			var filters testrail.Filters
			if op.filters {
				if filters, err = testrail.ParseFilters(filterPairs); err != nil {
					return err
				}
			}

			var params any
			if op.params {
				if params, err = loadParams(paramsPath, cmd.InOrStdin()); err != nil {
					return err
				}
			}

			body, err := op.call(cmd.Context(), s.gateway.Client(), ids, filters, params).Await(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}

	if op.filters {
		cmd.Flags().StringArrayVar(&filterPairs, "filter", nil, "Filter as key=value (repeatable, applied in order)")
	}
	if op.params {
		cmd.Flags().StringVarP(&paramsPath, "params", "p", "", "YAML or JSON file with the request body ('-' for stdin); unquoted dates are sent as written")
		_ = cmd.MarkFlagRequired("params")
	}
	return cmd
}

// parseIDs converts positional ids and pads missing optional ones with zero.
func parseIDs(args []string, size int) ([]int64, error) {
	ids := make([]int64, size)
	for i, a := range args {
		v, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid id %q (expected a positive integer)", a)
		}
		ids[i] = v
	}
	return ids, nil
}
