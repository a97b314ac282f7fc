package testrail

import "context"

// RunsService groups test run endpoints.
type RunsService struct{ c *Client }

// GetRun fetches a single test run.
func (s *RunsService) GetRun(ctx context.Context, runID int64) *Future {
	return s.c.get(ctx, "get_run/"+itoa(runID))
}

// GetRuns lists the runs of a project.
func (s *RunsService) GetRuns(ctx context.Context, projectID int64, filters Filters) *Future {
	return s.c.get(ctx, applyFilters("get_runs/"+itoa(projectID), filters))
}

// AddRun creates a run in a project.
func (s *RunsService) AddRun(ctx context.Context, projectID int64, params any) *Future {
	return s.c.post(ctx, "add_run/"+itoa(projectID), params)
}

// UpdateRun updates a run with params.
func (s *RunsService) UpdateRun(ctx context.Context, runID int64, params any) *Future {
	return s.c.post(ctx, "update_run/"+itoa(runID), params)
}

// CloseRun closes a run; the request carries no body.
func (s *RunsService) CloseRun(ctx context.Context, runID int64) *Future {
	return s.c.post(ctx, "close_run/"+itoa(runID), nil)
}

// DeleteRun deletes a run; the request carries no body.
func (s *RunsService) DeleteRun(ctx context.Context, runID int64) *Future {
	return s.c.post(ctx, "delete_run/"+itoa(runID), nil)
}
